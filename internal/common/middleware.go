package common

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ctxKey int

const identityKey ctxKey = iota

// IdentityFromContext returns the authenticated claims stored by the auth
// middleware, if any.
func IdentityFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(identityKey).(*Claims)
	return claims, ok
}

// AuthMiddleware resolves the bearer token on incoming requests and injects
// the caller identity into the request context.
type AuthMiddleware struct {
	tokens *TokenManager
}

func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, claims)))
	})
}

// OptionalAuth injects the identity when a valid token is present but lets
// anonymous requests through. Used by the public read endpoints, which only
// need the identity for the isLikedByMe annotation.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), identityKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin identities. Must wrap handlers already
// behind RequireAuth semantics, so it resolves the token itself too.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		if claims.Role != "ADMIN" {
			Logger.Warn("non-admin access attempt",
				zap.Uint64("user_id", claims.UserID),
				zap.String("path", r.URL.Path))
			WriteError(w, Forbidden("admin access required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, claims)))
	})
}

func (m *AuthMiddleware) resolve(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, Unauthorized("authorization required")
	}

	// header = Bearer <token>
	parts := strings.Fields(header)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, Unauthorized("invalid auth header")
	}

	claims, err := m.tokens.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, Unauthorized("invalid or expired token")
	}
	return claims, nil
}
