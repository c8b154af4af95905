package auth

import (
	"net/http"
	"strings"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// BearerToken copies the Authorization bearer token into the request context.
// Requests without a token pass through and are evaluated as unrecognized callers.
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			r = r.WithContext(shared.ContextWithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
