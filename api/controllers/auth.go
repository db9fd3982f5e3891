package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buynowhq/buynow-backend/api/middleware"
	"github.com/buynowhq/buynow-backend/api/responses"
	"github.com/buynowhq/buynow-backend/api/validators"
	"github.com/buynowhq/buynow-backend/internal/auth"
	"github.com/buynowhq/buynow-backend/pkg/config"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/logger"
)

// Register wires the signup endpoint into the HTTP layer.
func Register(svc auth.Service, app config.AppConfig, jwt config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, app, jwt, result.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Login wires the credential check endpoint into the HTTP layer.
func Login(svc auth.Service, app config.AppConfig, jwt config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, app, jwt, result.Token)
		responses.WriteSuccess(w, result)
	}
}

// Logout clears the session cookie.
func Logout(app config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w, app)
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}

// ForgotPassword starts the password-reset flow.
func ForgotPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ForgotPassword(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "password reset email sent"})
	}
}

// ResetPassword completes the password-reset flow and starts a session.
func ResetPassword(svc auth.Service, app config.AppConfig, jwt config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, app, jwt, result.Token)
		responses.WriteSuccess(w, result)
	}
}

// UpdatePassword changes the caller's password and refreshes the session.
func UpdatePassword(svc auth.Service, app config.AppConfig, jwt config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "please login to access this resource")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.UpdatePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdatePassword(r.Context(), user.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, app, jwt, result.Token)
		responses.WriteSuccess(w, result)
	}
}
