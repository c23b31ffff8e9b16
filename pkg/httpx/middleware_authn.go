package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/lari/bloggerhub/pkg/slogx"
)

// AccessTokenVerifier is the slice of the token codec the identity
// middleware needs.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) bool
	SubjectOfAccessToken(token string) (string, error)
}

// IdentityResolver turns a verified token subject into a request identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// IdentityMiddleware resolves the bearer access token into a request
// identity. It never rejects a request: a missing, invalid or unresolvable
// token just leaves the request unauthenticated, and the authorization
// middlewares decide whether that matters for the route. Unexpected failures
// are logged and swallowed so a bad credential can't break unrelated handling.
func IdentityMiddleware(v AccessTokenVerifier, resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := parseBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !v.VerifyAccessToken(raw) {
				log.Warn("invalid access token presented")
				next.ServeHTTP(w, r)
				return
			}

			userID, err := v.SubjectOfAccessToken(raw)
			if err != nil {
				log.Warn("access token subject extraction failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveIdentity(ctx, userID)
			if err != nil {
				log.Warn("could not resolve authenticated user", "user_id", userID, "err", err)
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("user authenticated", "user_id", identity.UserID)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, identity)))
		})
	}
}

func parseBearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	return token, token != ""
}
