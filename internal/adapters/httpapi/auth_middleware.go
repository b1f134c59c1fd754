package httpapi

import (
	"context"
	"net/http"
	"strings"
)

// TokenVerifier authenticates a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// NewAuthMiddleware enforces Authorization: Bearer <JWT> and stores the token's subject
// in the request context.
func NewAuthMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				challenge(w, "")
				writeUnauthorized(w, r, "missing Authorization header")
				return
			}
			scheme, raw, ok := strings.Cut(authz, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				challenge(w, "invalid_request")
				writeUnauthorized(w, r, "malformed Authorization header")
				return
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				challenge(w, "invalid_request")
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			sub, err := v.Verify(r.Context(), raw)
			if err != nil {
				challenge(w, "invalid_token")
				writeUnauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}

func challenge(w http.ResponseWriter, code string) {
	v := `Bearer realm="crew-rotation-api"`
	if code != "" {
		v += `, error="` + code + `"`
	}
	w.Header().Set("WWW-Authenticate", v)
}

// NewDevAuthMiddleware is a local-only auth shim: the subject comes from X-Debug-Subject,
// falling back to defaultSubject. Never enable it in production.
func NewDevAuthMiddleware(defaultSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				writeUnauthorized(w, r, "missing subject (set X-Debug-Subject)")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}
