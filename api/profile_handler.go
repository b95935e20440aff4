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

type profileHandler struct {
	responder  Responder
	logger     zerolog.Logger
	userRepo   *database.UserRepo
	postRepo   *database.PostRepo
	followRepo *database.FollowRepo
	pageSize   int
}

func newProfileHandler(userRepo *database.UserRepo, postRepo *database.PostRepo, followRepo *database.FollowRepo, pageSize int) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
	}
}

// ProfileResponse is an author's public identity, their post feed, how
// many authors they follow themselves, and whether the requesting user
// follows them (false for anonymous views)
type ProfileResponse struct {
	Author         models.User   `json:"author"`
	Page           database.Page `json:"page"`
	Following      bool          `json:"following"`
	FollowingCount int64         `json:"followingCount"`
}

// getProfile returns an author's profile feed
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := h.findProfileUser(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		pageNumber := database.ParsePageNumber(r.URL.Query().Get("page"))

		page, err := h.postRepo.ByAuthor(author.ID, pageNumber, h.pageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list author posts", "posts", err))
			return
		}

		following := false
		if userID, ctxErr := ctxGetUserID(r.Context()); ctxErr == nil {
			if ok, followErr := h.followRepo.IsFollowing(userID, author.ID); followErr == nil {
				following = ok
			}
		}

		followingCount, err := h.followRepo.CountByUser(author.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count following", "follow", err))
			return
		}

		h.responder.WriteJSON(w, ProfileResponse{
			Author:         *author,
			Page:           page,
			Following:      following,
			FollowingCount: followingCount,
		})
	}
}

// follow creates the follow edge current-user -> profile author.
// Following yourself is silently refused and a repeated follow is a
// no-op; both leave the edge count untouched and return success.
func (h profileHandler) follow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		author, err := h.findProfileUser(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.followRepo.Follow(userID, author.ID); err != nil && !errs.IsSelfFollow(err) {
			h.responder.WriteError(w, wrapDatabaseError("create follow", "follow", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// unfollow removes the follow edge; a missing edge is a no-op
func (h profileHandler) unfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		author, err := h.findProfileUser(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.followRepo.Unfollow(userID, author.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete follow", "follow", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h profileHandler) findProfileUser(r *http.Request) (*models.User, error) {
	username := chi.URLParam(r, "username")
	if username == "" {
		return nil, errs.NewBadRequestError("missing username")
	}

	user, err := h.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("profile")
		}
		return nil, wrapDatabaseError("find user", "user", err)
	}
	return user, nil
}
