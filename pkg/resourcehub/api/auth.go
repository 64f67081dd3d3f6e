package api

import (
	"context"

	"github.com/go-chi/jwtauth"
)

// Principal extracts the authenticated principal from the request
// context. The token verifier middleware must have run first; a missing
// or invalid token yields an empty principal, which the service layer
// rejects for owner-scoped operations.
func Principal(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return ""
	}
	return sub
}
