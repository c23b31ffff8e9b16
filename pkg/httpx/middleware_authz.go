package httpx

import "net/http"

// RequireAuthenticated converts "no identity on an identity-requiring route"
// into a 401. This is deliberately separate from IdentityMiddleware, which
// only establishes identity and never rejects.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				writeBearerError(w, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyAuthority admits the request when the identity carries at least
// one of the listed authorities. Unauthenticated requests get a 401,
// authenticated ones without the authority a 403.
func RequireAnyAuthority(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeBearerError(w, "authentication required")
				return
			}

			for _, authority := range required {
				if identity.HasAuthority(authority) {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
			WriteJSON(w, http.StatusForbidden, map[string]string{
				"error": "insufficient authority",
			})
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error": desc,
	})
}
