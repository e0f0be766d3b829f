package router

import (
	"net/http"
	"strings"
)

// requireAPIKey guards back-office routes with the shared X-API-Key. An
// empty expected key leaves the routes open, matching local development.
func requireAPIKey(expected string) func(http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if key == "" || key != expected {
				http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
