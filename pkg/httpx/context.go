package httpx

import "context"

// Identity is the authenticated principal attached to a request by the
// identity middleware. Authorities are role-derived permission strings.
type Identity struct {
	UserID      string
	Username    string
	Authorities []string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the request identity, if one was established.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}

// HasAuthority reports whether the identity carries the given authority.
func (id Identity) HasAuthority(authority string) bool {
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
