package chi

import (
	"net/http"
	"strings"

	"github.com/campuscrew/eduhub/internal/domain/role"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// RoleMiddleware resolves the caller's capability set once per request.
// Bearer keys are issued by the session provider and mapped to roles in config.
// Requests without an Authorization header get defaultRole; a malformed header
// or an unknown key is rejected with 401.
func RoleMiddleware(keys map[string]role.Role, defaultRole role.Role) func(http.Handler) http.Handler {
	validKeys := make(map[string]role.Role, len(keys))
	for k, r := range keys {
		if k != "" {
			validKeys[k] = r
		}
	}
	anonymous := role.Capabilities(defaultRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r.WithContext(role.WithContext(r.Context(), anonymous)))
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			granted, ok := validKeys[token]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(role.WithContext(r.Context(), role.Capabilities(granted))))
		})
	}
}
