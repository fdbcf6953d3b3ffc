package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/api/responses"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

const clientIDHeader = "X-Client-Id"

// ClientIdentity requires the caller's client id header on every request. The
// platform gateway authenticates callers before traffic reaches this service
// and forwards the verified identity in the header.
func ClientIdentity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(clientIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity header required"))
				return
			}
			clientID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity header must be a uuid"))
				return
			}

			ctx := WithClientID(r.Context(), clientID.String())
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
