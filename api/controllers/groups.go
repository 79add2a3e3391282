package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huddlebuy/huddlebuy-backend/api/responses"
	"github.com/huddlebuy/huddlebuy-backend/api/validators"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/pagination"
)

type createGroupRequest struct {
	Name                 string     `json:"name" validate:"required,min=1,max=120"`
	Description          *string    `json:"description,omitempty"`
	ProductID            string     `json:"product_id" validate:"required,uuid"`
	Visibility           string     `json:"visibility" validate:"required,oneof=public private"`
	JoinPolicy           string     `json:"join_policy" validate:"omitempty,oneof=open approval"`
	MemberLimit          *int       `json:"member_limit,omitempty" validate:"omitempty,gt=0"`
	FinalizationDeadline *time.Time `json:"finalization_deadline,omitempty"`
}

type joinGroupRequest struct {
	AccessCode *string `json:"access_code,omitempty"`
}

type joinByCodeRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
}

// GroupCreate opens a new buying group for a product.
func GroupCreate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		visibility, err := enums.ParseGroupVisibility(payload.Visibility)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid visibility"))
			return
		}
		joinPolicy := enums.JoinPolicyOpen
		if payload.JoinPolicy != "" {
			joinPolicy, err = enums.ParseJoinPolicy(payload.JoinPolicy)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid join policy"))
				return
			}
		}

		group, err := svc.CreateGroup(r.Context(), actor, groups.CreateGroupInput{
			Name:                 payload.Name,
			Description:          payload.Description,
			ProductID:            productID,
			Visibility:           visibility,
			JoinPolicy:           joinPolicy,
			MemberLimit:          payload.MemberLimit,
			FinalizationDeadline: payload.FinalizationDeadline,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

// GroupGet returns the group with its live member count and time remaining.
func GroupGet(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.GetGroup(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// GroupJoin seats the caller in the group, checking the access code for
// private groups.
func GroupJoin(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload joinGroupRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		group, err := svc.Join(r.Context(), actor, groupID, payload.AccessCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// GroupJoinByCode seats the caller in the private group owning the code.
func GroupJoinByCode(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload joinByCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.JoinByCode(r.Context(), actor, payload.AccessCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// GroupLeave removes the caller from the roster.
func GroupLeave(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Leave(r.Context(), actor, groupID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "left"})
	}
}

// GroupMembers returns one cursor page of the roster.
func GroupMembers(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			page.Limit = limit
		}

		result, err := svc.ListMembers(r.Context(), groupID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
