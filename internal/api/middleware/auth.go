package middleware

import (
	"context"
	"net/http"

	"counsel_hub/internal/common"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const IdentityCtxKey contextKey = "identity"

const notAuthorized = "Not authorized to access this route"

// Verifier looks for a bearer token in the Authorization header only.
func Verifier(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return jwtauth.Verify(tokens.Auth, jwtauth.TokenFromHeader)
}

// Authenticator rejects requests without a valid token and stores the
// caller's Identity in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithMessage(w, http.StatusUnauthorized, notAuthorized)
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithMessage(w, http.StatusUnauthorized, notAuthorized)
			return
		}
		role, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithMessage(w, http.StatusUnauthorized, notAuthorized)
			return
		}
		identity, ok := model.NewIdentity(userID, role)
		if !ok {
			common.RespondWithMessage(w, http.StatusUnauthorized, notAuthorized)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				common.RespondWithMessage(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			if !allowed[identity.Role()] {
				common.RespondWithMessage(w, http.StatusForbidden,
					"User role "+identity.Role()+" is not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)(next)
}

// Helper to get the caller from context
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(model.Identity)
	return identity, ok
}
