package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/pagecache"
)

type cacheHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *pagecache.Store
}

func newCacheHandler(store *pagecache.Store) cacheHandler {
	logger := log.With().Str("handlerName", "cacheHandler").Logger()

	return cacheHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// clear is the manual invalidation hook for the page cache. Nothing
// else empties it before entries expire.
func (h cacheHandler) clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteJSON(w, map[string]string{"status": "success", "message": "cache disabled"})
			return
		}

		if err := h.store.Clear(); err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to clear page cache"))
			return
		}

		h.logger.Info().Msg("page cache cleared")
		h.responder.WriteJSON(w, map[string]string{"status": "success", "message": "page cache cleared"})
	}
}
