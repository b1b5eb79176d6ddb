/*
identity.go - JWT identity extraction and role middleware

PURPOSE:
  The engine treats authentication as an external collaborator: requests
  arrive with a JWT carrying the employee id ("sub") and a role claim.
  This file verifies the token, extracts a typed identity, and gates
  admin-only routes. No session state lives in the engine.

CLAIMS:
  sub:  employee id (required)
  role: "admin" or "employee" (defaults to employee when absent)

SEE ALSO:
  - server.go: Where the verifier and these middlewares are mounted
*/
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/warp/brokerage-engine/payroll"
)

// NewAuth builds the token verifier from the shared HMAC secret.
func NewAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

type identityKey struct{}

// Identity is the caller extracted from a verified token.
type Identity struct {
	EmployeeID payroll.EmployeeID
	Role       payroll.Role
}

// RequireIdentity rejects requests without a valid token carrying a
// subject, and stashes the typed identity in the request context.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token", err)
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, "token has no subject", nil)
			return
		}

		role := payroll.RoleEmployee
		if raw, ok := claims["role"].(string); ok && payroll.Role(raw) == payroll.RoleAdmin {
			role = payroll.RoleAdmin
		}

		ident := Identity{EmployeeID: payroll.EmployeeID(sub), Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, ident)))
	})
}

// AdminOnly gates admin routes. Mount after RequireIdentity.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identityFrom(r.Context())
		if !ok || ident.Role != payroll.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin privilege required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}
