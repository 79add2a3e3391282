package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huddlebuy/huddlebuy-backend/api/responses"
	"github.com/huddlebuy/huddlebuy-backend/internal/finalization"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

// GroupFinalize converts the group into an immutable group order.
func GroupFinalize(svc finalization.Service, logg *logger.Logger) http.HandlerFunc {
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

		order, err := svc.Finalize(r.Context(), actor, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GroupOrderGet returns the order produced by finalizing the group.
func GroupOrderGet(svc finalization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetGroupOrder(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderGet returns a group order by its own id.
func OrderGet(svc finalization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
