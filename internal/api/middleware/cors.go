package middleware

import (
	"net/http"
	"strings"

	"qrforge/internal/platform/config"
)

// CORSMiddleware permits browser clients to call the API from any configured
// origin. Preflight OPTIONS requests are answered with an empty 200.
type CORSMiddleware struct {
	allowOrigin  string
	allowHeaders string
}

func NewCORSMiddleware(cfg config.CORSConfig) *CORSMiddleware {
	origin := "*"
	if len(cfg.AllowedOrigins) == 1 {
		origin = cfg.AllowedOrigins[0]
	}

	headers := "authorization, x-client-info, apikey, content-type"
	if len(cfg.AllowedHeaders) > 0 {
		headers = strings.Join(cfg.AllowedHeaders, ", ")
	}

	return &CORSMiddleware{
		allowOrigin:  origin,
		allowHeaders: headers,
	}
}

func (m *CORSMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.setHeaders(w)
		next(w, r)
	}
}

// Preflight answers an OPTIONS request.
func (m *CORSMiddleware) Preflight(w http.ResponseWriter, r *http.Request) {
	m.setHeaders(w)
	w.WriteHeader(http.StatusOK)
}

func (m *CORSMiddleware) setHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", m.allowOrigin)
	w.Header().Set("Access-Control-Allow-Headers", m.allowHeaders)
}
