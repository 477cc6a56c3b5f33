package httputil

import (
	"net/http"
	"time"
)

// AccessTokenCookie is the name of the bearer-token cookie.
const AccessTokenCookie = "access_token"

// CookieConfig holds cookie configuration.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool // set true behind HTTPS
	SameSite http.SameSite
}

// DefaultCookieConfig returns default cookie configuration.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuthCookie sets the HttpOnly bearer-token cookie. Used by the
// OAuth callback, where the token cannot be returned as a JSON body.
func SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// GetAccessTokenFromCookie extracts the bearer token from the cookie.
func GetAccessTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}
