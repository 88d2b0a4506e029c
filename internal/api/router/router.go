// Package router wires the public HTTP surface together: routes, CORS,
// request IDs, tracing, metrics, rate limiting, and request timeouts.
package router

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/ratelimit"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/middleware"
)

// Config controls which optional middleware layers are installed.
type Config struct {
	RequestTimeout  time.Duration
	RateLimitPerMin int // 0 disables rate limiting
}

// New builds the full HTTP handler for the search API.
//
// Route table:
//
//	GET  /api/search      → boolean/ranked search
//	GET  /api/stats       → engine-wide counters
//	GET  /api/zipf        → term frequency ranking
//	GET  /api/document    → single document lookup
//	POST /api/dump        → snapshot the current index to disk
//	GET  /healthz         → liveness probe
//	GET  /readyz          → readiness probe
//
// Middleware chain (outermost first):
//
//	RequestID → Tracing → CORS → Metrics → Timeout → RateLimit → mux
func New(h *handler.Handler, checker *health.Checker, m *metrics.Metrics, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/zipf", h.Zipf)
	mux.HandleFunc("GET /api/document", h.Document)
	mux.HandleFunc("POST /api/dump", h.Dump)
	mux.Handle("GET /healthz", checker.LiveHandler())
	mux.Handle("GET /readyz", checker.ReadyHandler())

	var chain http.Handler = mux
	if cfg.RateLimitPerMin > 0 {
		chain = ratelimit.Middleware(ratelimit.New(time.Minute), cfg.RateLimitPerMin)(chain)
	}
	if cfg.RequestTimeout > 0 {
		chain = middleware.Timeout(cfg.RequestTimeout)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.Tracing(chain)
	chain = middleware.RequestID(chain)

	return chain
}
