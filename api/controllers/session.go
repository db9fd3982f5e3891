package controllers

import (
	"net/http"
	"time"

	"github.com/buynowhq/buynow-backend/api/middleware"
	"github.com/buynowhq/buynow-backend/pkg/config"
)

// setSessionCookie attaches the signed session token to the response.
func setSessionCookie(w http.ResponseWriter, app config.AppConfig, jwt config.JWTConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(jwt.CookieExpiry()),
		HttpOnly: true,
		Secure:   app.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(w http.ResponseWriter, app config.AppConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}
