package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RequireIdentity creates a middleware that rejects requests the resolver
// cannot identify and passes the account ID down via the context.
func RequireIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				status, msg := http.StatusUnauthorized, "Authentication required"
				if errors.Is(err, ErrInvalidIdentity) {
					status, msg = http.StatusBadRequest, "Invalid user ID"
				}
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(map[string]string{"error": msg})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), id)))
		})
	}
}
