package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const actorContextKey = contextKey("actor")

// ActorResolver re-reads the account behind a session on every request.
type ActorResolver interface {
	ResolveActor(ctx context.Context, accountID string) (access.Actor, error)
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the request actor, Anonymous when none was resolved.
func ActorFromContext(ctx context.Context) access.Actor {
	if actor, ok := ctx.Value(actorContextKey).(access.Actor); ok && actor != nil {
		return actor
	}
	return access.Anonymous{}
}

// AuthMiddleware resolves the actor from a bearer token or, failing that, the
// session cookie. Requests without credentials continue as Anonymous; the
// services decide what Anonymous may do. A bearer token that does not verify
// is rejected outright.
func AuthMiddleware(resolver ActorResolver, tokens *session.TokenSigner, cookies *session.CookieManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := ""
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					logger.Warn().Msg("Malformed Authorization header")
					writeError(w, http.StatusUnauthorized, "Invalid authorization header")
					return
				}
				id, err := tokens.Parse(strings.TrimSpace(parts[1]))
				if err != nil {
					logger.Warn().Err(err).Msg("Rejected bearer token")
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				accountID = id
			} else if id, ok := cookies.AccountID(r); ok {
				accountID = id
			}

			var actor access.Actor = access.Anonymous{}
			if accountID != "" {
				resolved, err := resolver.ResolveActor(r.Context(), accountID)
				if err != nil {
					logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to resolve actor")
					writeError(w, http.StatusInternalServerError, "Failed to resolve session")
					return
				}
				actor = resolved
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// writeError renders the same problem document huma uses for operation errors.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
