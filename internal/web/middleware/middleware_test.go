package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/facilitydesk/internal/config"
	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

func TestTrustedRealIP(t *testing.T) {
	mw := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "bogus"})

	tests := []struct {
		name   string
		remote string
		realIP string
		xff    string
		want   string
	}{
		{"untrusted peer ignores headers", "203.0.113.9:5000", "1.2.3.4", "", "203.0.113.9:5000"},
		{"trusted peer uses X-Real-IP", "10.1.2.3:5000", "1.2.3.4", "", "1.2.3.4"},
		{"bare trusted IP", "192.168.1.5:80", "1.2.3.4", "", "1.2.3.4"},
		{"invalid X-Real-IP keeps peer", "10.1.2.3:5000", "nope", "", "10.1.2.3:5000"},
		{"xff single hop", "10.1.2.3:5000", "", "198.51.100.7", "198.51.100.7"},
		{"xff skips trusted hops", "10.1.2.3:5000", "", "6.6.6.6, 198.51.100.7, 10.9.9.9", "198.51.100.7"},
		{"xff all trusted keeps peer", "10.1.2.3:5000", "", "10.0.0.1", "10.1.2.3:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		cfg    config.SecurityConfig
		header string
		want   int
	}{
		{"disabled", config.SecurityConfig{}, "", http.StatusNoContent},
		{"missing", config.SecurityConfig{RequireToken: true, Tokens: []string{"s3cret"}}, "", http.StatusUnauthorized},
		{"wrong scheme", config.SecurityConfig{RequireToken: true, Tokens: []string{"s3cret"}}, "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", config.SecurityConfig{RequireToken: true, Tokens: []string{"s3cret"}}, "Bearer nope", http.StatusForbidden},
		{"valid", config.SecurityConfig{RequireToken: true, Tokens: []string{"other", "s3cret"}}, "Bearer s3cret", http.StatusNoContent},
		{"case-insensitive scheme", config.SecurityConfig{RequireToken: true, Tokens: []string{"s3cret"}}, "bearer s3cret", http.StatusNoContent},
		{"no tokens configured", config.SecurityConfig{RequireToken: true}, "Bearer s3cret", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			req := httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			BearerAuth(&cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
		w.Write([]byte("xyz"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kinds", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" || entry["status"] != float64(http.StatusTeapot) || entry["bytes"] != float64(3) {
		t.Errorf("log entry = %v", entry)
	}
}
