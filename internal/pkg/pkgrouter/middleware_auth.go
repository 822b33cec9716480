package pkgrouter

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerAuth builds a middleware enforcing a static bearer token.
//
// The expected token is fetched per request so a watched config file can
// rotate it without a restart. An empty expected token disables the check
// entirely: every route stays reachable without credentials.
func BearerAuth(token func() string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected := ""
			if token != nil {
				expected = strings.TrimSpace(token())
			}
			if expected == "" {
				next.ServeHTTP(w, r)
				return
			}

			got, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				writeJSON(w, errorResponse{Message: "Invalid API key"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) {
		return "", false
	}
	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
