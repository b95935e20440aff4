package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/models"
)

type feedHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	groupRepo *database.GroupRepo
	pageSize  int
}

func newFeedHandler(postRepo *database.PostRepo, groupRepo *database.GroupRepo, pageSize int) feedHandler {
	logger := log.With().Str("handlerName", "feedHandler").Logger()

	return feedHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		groupRepo: groupRepo,
		pageSize:  pageSize,
	}
}

// FeedResponse is a single page of a post feed
type FeedResponse struct {
	Page database.Page `json:"page"`
}

// GroupFeedResponse is a group's description plus one page of its posts
type GroupFeedResponse struct {
	Group models.Group  `json:"group"`
	Page  database.Page `json:"page"`
}

// index returns the global feed, newest post first.
// Responses pass through the page cache middleware: a fetch after a new
// post may repeat the cached bytes until the cache expires or is
// cleared explicitly.
func (h feedHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber := database.ParsePageNumber(r.URL.Query().Get("page"))

		page, err := h.postRepo.Index(pageNumber, h.pageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, FeedResponse{Page: page})
	}
}

// groupFeed returns the posts filed under a single group
func (h feedHandler) groupFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		group, err := h.groupRepo.FindBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("group"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find group", "group", err))
			return
		}

		pageNumber := database.ParsePageNumber(r.URL.Query().Get("page"))

		page, err := h.postRepo.ByGroup(group.ID, pageNumber, h.pageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list group posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, GroupFeedResponse{Group: *group, Page: page})
	}
}

// followFeed returns posts by every author the requesting user follows.
// Following nobody yields an empty page, not an error.
func (h feedHandler) followFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		pageNumber := database.ParsePageNumber(r.URL.Query().Get("page"))

		page, err := h.postRepo.ByFollowed(userID, pageNumber, h.pageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list followed posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, FeedResponse{Page: page})
	}
}
