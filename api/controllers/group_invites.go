package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/huddlebuy/huddlebuy-backend/api/responses"
	"github.com/huddlebuy/huddlebuy-backend/api/validators"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InviteCreate issues a single-use invite token for the email.
func InviteCreate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := pathUUID(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inviteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invite, err := svc.Invite(r.Context(), actor, groupID, payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

// InviteAccept redeems an invite token and seats the caller.
func InviteAccept(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invite token required"))
			return
		}

		group, err := svc.AcceptInvite(r.Context(), actor, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}
