package httpx

import (
	"net/http"
	"strings"
)

// HasAnyRole reports whether the comma-delimited role string held by the
// caller contains at least one of the required roles. Comparison is exact;
// role names are upper-case by convention.
func HasAnyRole(held string, required ...string) bool {
	// No requirement means no restriction.
	if len(required) == 0 {
		return true
	}
	if held == "" {
		return false
	}
	have := make(map[string]struct{})
	for _, r := range strings.Split(held, ",") {
		have[strings.TrimSpace(r)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[r]; ok {
			return true
		}
	}
	return false
}

// RequireAnyRole the caller must hold at least one of the provided roles.
// Must run after AuthnMiddleware so roles are present in the context. No
// route declares a blanket role requirement today; admin privilege is
// checked per resource in the services instead.
func RequireAnyRole(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			held := RolesFromCtx(r.Context())

			if HasAnyRole(held, required...) {
				next.ServeHTTP(w, r)
				return
			}

			writeBearerRoleError(w, http.StatusForbidden, required...)
		})
	}
}

// RFC 6750-compliant error response for bearer insufficient_scope.
func writeBearerRoleError(w http.ResponseWriter, code int, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	w.WriteHeader(code)
	_, _ = w.Write([]byte("insufficient_scope"))
}
