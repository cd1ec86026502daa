package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/facilitydesk/internal/config"
)

// BearerAuth returns middleware that validates the Authorization: Bearer
// header against configured tokens.
// If RequireToken is false, all requests pass through.
// If RequireToken is true but no tokens are configured, all requests are rejected.
func BearerAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip validation if auth is disabled
			if !cfg.RequireToken {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				slog.Warn("auth: missing bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="facilitydesk"`)
				writeAuthError(w, http.StatusUnauthorized, "Missing bearer token", "AUTH001")
				return
			}

			if !isValidToken(token, cfg.Tokens) {
				slog.Warn("auth: invalid bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "Invalid bearer token", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// isValidToken checks if the provided token matches any configured token.
// Uses constant-time comparison and checks ALL tokens so the comparison time
// does not depend on which token matches (or none).
func isValidToken(token string, valid []string) bool {
	match := 0
	for _, v := range valid {
		match |= subtle.ConstantTimeCompare([]byte(token), []byte(v))
	}
	return match == 1
}

func writeAuthError(w http.ResponseWriter, status int, detail, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail, "code": code})
}
