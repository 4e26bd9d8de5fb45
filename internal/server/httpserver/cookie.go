package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/common"
)

// CookieOptions controls how the session cookie is issued.
type CookieOptions struct {
	Secure bool
}

func setSessionCookie(w http.ResponseWriter, token string, lifetime time.Duration, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
