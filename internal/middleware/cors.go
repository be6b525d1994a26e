package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSMiddleware allows the frontend origin(s) to call the API from the
// browser. Only configured origins are echoed back; everything else gets no
// CORS headers and the browser blocks the response.
type CORSMiddleware struct {
	allowedOrigins map[string]struct{}
	maxAge         int // seconds a preflight response may be cached
}

// NewCORSMiddleware creates a new CORS middleware for the given origins.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return &CORSMiddleware{
		allowedOrigins: allowed,
		maxAge:         600,
	}
}

// Handler returns middleware that sets CORS headers and answers preflights.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if _, ok := m.allowedOrigins[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
			}
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.maxAge))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
