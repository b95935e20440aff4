package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/forms"
	"github.com/rpupo63/pulse-backend/models"
)

type groupHandler struct {
	responder Responder
	logger    zerolog.Logger
	groupRepo *database.GroupRepo
}

func newGroupHandler(groupRepo *database.GroupRepo) groupHandler {
	logger := log.With().Str("handlerName", "groupHandler").Logger()

	return groupHandler{
		responder: NewResponder(logger),
		logger:    logger,
		groupRepo: groupRepo,
	}
}

// getAllGroups lists every group
func (h groupHandler) getAllGroups() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := h.groupRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list groups", "groups", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"groups": groups,
			"total":  len(groups),
		})
	}
}

// createGroup is the administrative action that brings a group into
// existence. A duplicate slug comes back as a conflict, not a crash.
func (h groupHandler) createGroup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.GroupForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		group := models.Group{
			Title:       form.Title,
			Slug:        form.Slug,
			Description: form.Description,
		}

		if err := h.groupRepo.Add(&group); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, group)
	}
}
