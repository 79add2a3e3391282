package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/api/responses"
	"github.com/huddlebuy/huddlebuy-backend/api/validators"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

type joinRequestPayload struct {
	Message *string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// JoinRequestCreate files a pending join request on an approval group.
func JoinRequestCreate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload joinRequestPayload
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		request, err := svc.RequestJoin(r.Context(), actor, groupID, payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// JoinRequestList returns the group's join requests to its creator or an
// admin.
func JoinRequestList(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
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

		requests, err := svc.ListJoinRequests(r.Context(), actor, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, requests)
	}
}

// JoinRequestApprove approves a pending request and seats the requester.
func JoinRequestApprove(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return reviewJoinRequest(svc.ApproveRequest, logg)
}

// JoinRequestReject rejects a pending request.
func JoinRequestReject(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return reviewJoinRequest(svc.RejectRequest, logg)
}

func reviewJoinRequest(
	review func(ctx context.Context, actor groups.Actor, groupID, requestID uuid.UUID) (*groups.JoinRequestDTO, error),
	logg *logger.Logger,
) http.HandlerFunc {
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
		requestID, err := pathUUID(chi.URLParam(r, "requestId"), "request id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := review(r.Context(), actor, groupID, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}
