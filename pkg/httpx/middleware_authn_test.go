package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lari/bloggerhub/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	valid   map[string]string // token -> subject
	subjErr error
}

func (f *fakeVerifier) VerifyAccessToken(token string) bool {
	_, ok := f.valid[token]
	return ok
}

func (f *fakeVerifier) SubjectOfAccessToken(token string) (string, error) {
	if f.subjErr != nil {
		return "", f.subjErr
	}
	subject, ok := f.valid[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return subject, nil
}

type fakeResolver struct {
	identities map[string]httpx.Identity
}

func (f *fakeResolver) ResolveIdentity(_ context.Context, userID string) (httpx.Identity, error) {
	identity, ok := f.identities[userID]
	if !ok {
		return httpx.Identity{}, errors.New("user not found")
	}
	return identity, nil
}

func identityEcho(t *testing.T, got *httpx.Identity, authenticated *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IdentityFromContext(r.Context())
		*authenticated = ok
		if ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMiddleware(t *testing.T) {
	verifier := &fakeVerifier{valid: map[string]string{"good-token": "01USER"}}
	resolver := &fakeResolver{identities: map[string]httpx.Identity{
		"01USER": {UserID: "01USER", Username: "alice", Authorities: []string{"FREE_USER"}},
	}}

	run := func(t *testing.T, v httpx.AccessTokenVerifier, r httpx.IdentityResolver, header string) (bool, httpx.Identity, int) {
		t.Helper()
		var got httpx.Identity
		var authenticated bool

		handler := httpx.IdentityMiddleware(v, r)(identityEcho(t, &got, &authenticated))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return authenticated, got, rec.Code
	}

	t.Run("establishes identity for a valid token", func(t *testing.T) {
		authenticated, got, code := run(t, verifier, resolver, "Bearer good-token")
		require.Equal(t, http.StatusOK, code)
		require.True(t, authenticated)
		require.Equal(t, "01USER", got.UserID)
		require.Equal(t, []string{"FREE_USER"}, got.Authorities)
	})

	t.Run("missing header proceeds unauthenticated", func(t *testing.T) {
		authenticated, _, code := run(t, verifier, resolver, "")
		require.Equal(t, http.StatusOK, code)
		require.False(t, authenticated)
	})

	t.Run("invalid token proceeds unauthenticated", func(t *testing.T) {
		authenticated, _, code := run(t, verifier, resolver, "Bearer forged")
		require.Equal(t, http.StatusOK, code)
		require.False(t, authenticated)
	})

	t.Run("non-bearer scheme proceeds unauthenticated", func(t *testing.T) {
		authenticated, _, code := run(t, verifier, resolver, "Basic dXNlcjpwdw==")
		require.Equal(t, http.StatusOK, code)
		require.False(t, authenticated)
	})

	t.Run("unknown subject proceeds unauthenticated", func(t *testing.T) {
		v := &fakeVerifier{valid: map[string]string{"good-token": "01GONE"}}
		authenticated, _, code := run(t, v, resolver, "Bearer good-token")
		require.Equal(t, http.StatusOK, code)
		require.False(t, authenticated)
	})

	t.Run("resolver failure is swallowed", func(t *testing.T) {
		r := &fakeResolver{identities: nil}
		authenticated, _, code := run(t, verifier, r, "Bearer good-token")
		require.Equal(t, http.StatusOK, code)
		require.False(t, authenticated)
	})
}

func TestRequireAuthenticated(t *testing.T) {
	handler := httpx.RequireAuthenticated()(okHandler())

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("admits authenticated requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := httpx.ContextWithIdentity(req.Context(), httpx.Identity{UserID: "01USER"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAnyAuthority(t *testing.T) {
	handler := httpx.RequireAnyAuthority("ADMIN_USER")(okHandler())

	t.Run("401 without identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("403 without the authority", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := httpx.ContextWithIdentity(req.Context(), httpx.Identity{
			UserID:      "01USER",
			Authorities: []string{"FREE_USER"},
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admits matching authority", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := httpx.ContextWithIdentity(req.Context(), httpx.Identity{
			UserID:      "01ADMIN",
			Authorities: []string{"FREE_USER", "ADMIN_USER"},
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
