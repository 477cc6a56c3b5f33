package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// ClaimsKey is the context key for the token claims.
	ClaimsKey contextKey = "claims"
)

// Auth validates bearer tokens. Checks the Authorization header first,
// then falls back to the cookie set by the OAuth callback.
func Auth(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				if token, ok := httputil.GetAccessTokenFromCookie(r); ok {
					tokenString = token
				}
			}

			if tokenString == "" {
				httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "missing authorization")
				return
			}

			claims, err := signer.Verify(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, string(domain.KindAuth), "invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetClaims extracts the token claims from the context.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}
