package http

import (
	"context"
	"net/http"
	"strings"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "staff_claims"

// AuthMiddleware validates staff bearer tokens and attaches the claims to
// the request context.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tokenManager security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager}
}

// RequireStaff rejects requests without a valid staff token.
func (m *AuthMiddleware) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
	}
}

// RequireAdmin additionally checks the ADMIN role.
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if claims.Role != string(domain.StaffRoleAdmin) {
			respondError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
	}
}

func (m *AuthMiddleware) claimsFromRequest(r *http.Request) (*security.StaffClaims, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, security.ErrInvalidToken
	}
	return m.tokenManager.ValidateToken(token)
}

// StaffClaims extracts the authenticated staff claims from a request
// context, if present.
func StaffClaims(ctx context.Context) (*security.StaffClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.StaffClaims)
	return claims, ok
}
