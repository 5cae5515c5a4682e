package http

import (
	"context"
	"net/http"

	"cybercase-service/internal/domain"
	"cybercase-service/internal/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const userIDCtxKey contextKey = "userID"

// Authenticator requires a verified token and stores the user id in the
// request context. It sits behind jwtauth.Verifier, which parses the
// Authorization header.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			respondError(w, domain.ErrUnauthorized)
			return
		}
		userID, err := security.UserIDFromClaims(claims)
		if err != nil {
			respondError(w, domain.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}
