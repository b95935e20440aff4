package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/forms"
	"github.com/rpupo63/pulse-backend/models"
	"github.com/rpupo63/pulse-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	secret    []byte
}

func newAuthHandler(userRepo *database.UserRepo, secret []byte) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		secret:    secret,
	}
}

// TokenResponse carries a fresh access token and the user it belongs to
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// signup registers a new user account and logs them in
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.SignupForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			Username:     form.Username,
			Email:        form.Email,
			PasswordHash: string(hash),
		}

		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		token, err := services.IssueToken(h.secret, user.ID, services.DefaultTokenTTL)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, TokenResponse{Token: token, User: user})
	}
}

// login exchanges username/password for an access token
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.LoginForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByUsername(form.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.Unauthorized)
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		token, err := services.IssueToken(h.secret, user.ID, services.DefaultTokenTTL)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, TokenResponse{Token: token, User: *user})
	}
}
