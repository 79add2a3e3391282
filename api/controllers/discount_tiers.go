package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/api/responses"
	"github.com/huddlebuy/huddlebuy-backend/api/validators"
	"github.com/huddlebuy/huddlebuy-backend/internal/tiers"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

type setTiersRequest struct {
	Tiers []tiers.TierInput `json:"tiers" validate:"max=10,dive"`
}

type bulkTiersRequest struct {
	ProductIDs []string          `json:"product_ids" validate:"required,min=1,max=100,dive,uuid"`
	Tiers      []tiers.TierInput `json:"tiers" validate:"required,min=1,max=10,dive"`
}

type bulkUndoRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=100,dive,uuid"`
}

// TiersGet returns the product's discount ladder.
func TiersGet(svc tiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ladder, err := svc.GetTiers(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ladder)
	}
}

// TiersPut replaces the product's discount ladder wholesale. An empty
// tiers array clears the ladder.
func TiersPut(svc tiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Tiers == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tiers is required"))
			return
		}

		// An explicit empty array clears the ladder.
		if len(payload.Tiers) == 0 {
			if err := svc.ClearTiers(r.Context(), actor.ID, productID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, []tiers.TierDTO{})
			return
		}

		ladder, err := svc.SetTiers(r.Context(), actor.ID, productID, payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ladder)
	}
}

// BulkTiersApply applies one ladder across many products. Products fail or
// succeed independently; per-product failures land in the result.
func BulkTiersApply(applier *tiers.BulkApplier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productIDs, err := parseUUIDList(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := applier.Apply(r.Context(), actor.ID, productIDs, payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BulkTiersUndo clears the ladder and disables group ordering for the listed
// products. Prior configuration is not reconstructed.
func BulkTiersUndo(applier *tiers.BulkApplier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkUndoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productIDs, err := parseUUIDList(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := applier.Undo(r.Context(), actor.ID, productIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseUUIDList(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, entry := range raw {
		id, err := uuid.Parse(entry)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id "+entry)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
