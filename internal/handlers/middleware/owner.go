package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/handlers/ownerctx"
	"github.com/referralhub/partnerhub/internal/handlers/render"
)

// OwnerHeader is set by the identity proxy in front of this service
const OwnerHeader = "X-Owner-ID"

// OwnerMiddleware resolves the acting owner from the trusted header and
// puts it on the request context. Requests without a valid owner id
// never reach the handlers.
func OwnerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, err := uuid.Parse(r.Header.Get(OwnerHeader))
			if err != nil {
				render.ServiceError(w, "Missing or invalid owner identity", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ownerctx.NewContext(r.Context(), ownerID)))
		})
	}
}
