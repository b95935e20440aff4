package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/pagecache"
)

// setupRoutes wires every endpoint. Only the index feed sits behind the
// page cache; group, profile, and follow feeds are always built fresh.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, cache *pagecache.Store) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.With(CachePageResponses(cache)).Get("/", handlers.feedHandler.index())
		r.Get("/group/{slug}", handlers.feedHandler.groupFeed())
		r.Get("/groups", handlers.groupHandler.getAllGroups())
		r.With(authMiddleware.authenticateIfPresent).Get("/profile/{username}", handlers.profileHandler.getProfile())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())

		r.Post("/signup", handlers.authHandler.signup())
		r.Post("/login", handlers.authHandler.login())

		r.Get("/status", handlers.statusHandler.status())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/posts", handlers.postHandler.createPost())
		r.Put("/posts/{postID}", handlers.postHandler.updatePost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
		r.Post("/posts/{postID}/comments", handlers.postHandler.addComment())

		r.Post("/profile/{username}/follow", handlers.profileHandler.follow())
		r.Delete("/profile/{username}/follow", handlers.profileHandler.unfollow())
		r.Get("/follow", handlers.feedHandler.followFeed())

		r.Post("/groups", handlers.groupHandler.createGroup())

		r.Post("/internal/cache/clear", handlers.cacheHandler.clear())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder := NewResponder(log.Logger)
		responder.WriteError(w, errs.NewNotFoundError("page not found"))
	})
}
