package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/server/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// authenticated wraps a handler with bearer-token verification. Every
// failure kind maps to the same 401; the distinct kind is logged only.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Info(r.Context(), "token rejected", "reason", err.Error())
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// claimsFrom returns the verified claims stored by the middleware.
func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
