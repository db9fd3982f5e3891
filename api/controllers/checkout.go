package controllers

import (
	"net/http"

	"github.com/buynowhq/buynow-backend/api/middleware"
	"github.com/buynowhq/buynow-backend/api/responses"
	"github.com/buynowhq/buynow-backend/api/validators"
	"github.com/buynowhq/buynow-backend/internal/checkout"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/logger"
)

// Checkout opens a hosted payment link for the caller's cart.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "please login to access this resource")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CreateSession(r.Context(), user, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
