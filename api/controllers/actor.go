package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/api/middleware"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

// actorFromRequest rebuilds the authenticated actor from the context the
// auth middleware seeded.
func actorFromRequest(r *http.Request) (groups.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return groups.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return groups.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return groups.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}

	return groups.Actor{ID: id, Role: role}, nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
