package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type statusHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
}

func newStatusHandler(startupTime time.Time) statusHandler {
	logger := log.With().Str("handlerName", "statusHandler").Logger()

	return statusHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
	}
}

// status reports liveness and how long the process has been up
func (h statusHandler) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
