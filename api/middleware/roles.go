package middleware

import (
	"fmt"
	"net/http"

	"github.com/buynowhq/buynow-backend/api/responses"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/logger"
)

// RequireRole blocks requests whose authenticated role does not match,
// naming the offending role in the 403 message.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := RoleFromContext(r.Context())
			if actual != role {
				msg := fmt.Sprintf("role %s is not allowed to access this resource", actual)
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
