package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/api/middleware"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
)

// clientIDFromRequest resolves the authenticated caller set by the identity
// middleware.
func clientIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ClientIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity malformed")
	}
	return id, nil
}
