package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/forms"
	"github.com/rpupo63/pulse-backend/models"
	"github.com/rpupo63/pulse-backend/services"
)

const maxUploadBytes = 10 << 20 // 10MB

type postHandler struct {
	responder   Responder
	logger      zerolog.Logger
	postRepo    *database.PostRepo
	commentRepo *database.CommentRepo
	groupRepo   *database.GroupRepo
	mediaRoot   string
}

func newPostHandler(postRepo *database.PostRepo, commentRepo *database.CommentRepo, groupRepo *database.GroupRepo, mediaRoot string) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		groupRepo:   groupRepo,
		mediaRoot:   mediaRoot,
	}
}

// PostDetailResponse is a post together with its comments
type PostDetailResponse struct {
	Post     models.Post       `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

// getPost retrieves a post by ID with its author, group, and comments
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		comments, err := h.commentRepo.FindByPost(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list comments", "comments", err))
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}

		h.responder.WriteJSON(w, PostDetailResponse{Post: *post, Comments: comments})
	}
}

// createPost creates a post for the authenticated user. Author and
// publication time are server-assigned; the request only supplies text,
// an optional group, and an optional image.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		form, err := h.parsePostForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if apiErr := h.checkGroupExists(form.GroupID); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		imagePath := ""
		if form.Image != nil {
			imagePath, err = services.SaveImage(h.mediaRoot, form.Image)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		post := models.Post{
			Text:     form.Text,
			AuthorID: userID,
			GroupID:  form.GroupID,
			Image:    imagePath,
		}

		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create post", "post", err))
			return
		}

		created, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created post", "post", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updatePost edits an existing post; only the author may do this
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.postRepo.FindByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		if existing.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can edit this post"))
			return
		}

		form, err := h.parsePostForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if apiErr := h.checkGroupExists(form.GroupID); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		imagePath := existing.Image
		if form.Image != nil {
			imagePath, err = services.SaveImage(h.mediaRoot, form.Image)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		updated := models.Post{
			ID:      postID,
			Text:    form.Text,
			GroupID: form.GroupID,
			Image:   imagePath,
		}

		if err := h.postRepo.Update(&updated); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		reloaded, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated post", "post", err))
			return
		}

		h.responder.WriteJSON(w, reloaded)
	}
}

// deletePost removes a post; only the author may do this. The store
// cascades the delete to the post's comments.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.postRepo.FindByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		if existing.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can delete this post"))
			return
		}

		if err := h.postRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete post", "post", err))
			return
		}

		if err := services.RemoveImage(h.mediaRoot, existing.Image); err != nil {
			h.logger.Warn().Err(err).Str("image", existing.Image).Msg("failed to remove post image")
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

// addComment attaches a comment to a post for the authenticated user.
// The request body carries only the text; post and author come from the
// URL and the session.
func (h postHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := parseIDParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.postRepo.FindByID(postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}

		var form forms.CommentForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment := models.Comment{
			PostID:   &postID,
			AuthorID: userID,
			Text:     form.Text,
		}

		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "comment", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, comment)
	}
}

// parsePostForm accepts either a JSON body or a multipart form (the
// latter for image uploads) and produces the allow-listed input struct.
func (h postHandler) parsePostForm(r *http.Request) (*forms.PostForm, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errs.NewMalformedPayloadError("multipart", err)
		}

		form := forms.PostForm{Text: r.FormValue("text")}

		if raw := r.FormValue("groupId"); raw != "" {
			groupID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, errs.NewInvalidFieldError("groupId", "must be a positive integer")
			}
			id := uint(groupID)
			form.GroupID = &id
		}

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if readErr != nil {
				return nil, errs.NewMalformedPayloadError("image", readErr)
			}
			form.Image = &forms.ImageUpload{Filename: header.Filename, Data: data}
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, errs.NewMalformedPayloadError("image", err)
		}

		return &form, nil
	}

	var form forms.PostForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}
	return &form, nil
}

// checkGroupExists rejects a post form referencing a group that does
// not exist; a nil group is fine, the post just goes ungrouped.
func (h postHandler) checkGroupExists(groupID *uint) *errs.ApiErr {
	if groupID == nil {
		return nil
	}
	if _, err := h.groupRepo.FindByID(*groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInvalidFieldError("groupId", "group does not exist")
		}
		return errs.NewInternalError("failed to verify group")
	}
	return nil
}

// parseIDParam reads a numeric URL parameter
func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}
