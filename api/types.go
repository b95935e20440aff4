package api

import "time"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	feedHandler    feedHandler
	postHandler    postHandler
	profileHandler profileHandler
	groupHandler   groupHandler
	cacheHandler   cacheHandler
	statusHandler  statusHandler
}

// handlerConfig carries the request-independent settings handlers need
type handlerConfig struct {
	pageSize    int
	mediaRoot   string
	jwtSecret   []byte
	startupTime time.Time
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}
