// Package handler implements the public HTTP surface: search, stats,
// Zipf report, document lookup, and an authenticated-by-network-topology
// admin dump trigger.
package handler

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/enginestore"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
	searchquery "github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/query"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/tracing"
)

const resultsPerPage = 10

// Handler serves the engine's read API over HTTP.
type Handler struct {
	store        *enginestore.Store
	cache        *cache.QueryCache // nil when Redis isn't configured
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	snapshotPath string
	logger       *slog.Logger
}

// New builds a Handler. cache, collector, and m may be nil to disable
// their respective subsystems.
func New(store *enginestore.Store, c *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics, defaultLimit, maxResults int, snapshotPath string) *Handler {
	return &Handler{
		store:        store,
		cache:        c,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		snapshotPath: snapshotPath,
		logger:       slog.Default().With("component", "api-handler"),
	}
}

// Search handles GET /api/search?q=...&limit=L&page=P.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartChildSpan(r.Context(), "api.search")
	defer span.End()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	limit := h.parseIntParam(r, "limit", h.defaultLimit, 1, h.maxResults)
	page := h.parseIntParam(r, "page", 1, 1, 1<<30)

	if query == "" {
		h.writeJSON(w, http.StatusOK, pagedResult{Results: []engine.Result{}, Total: 0, Page: page, Pages: 0})
		return
	}

	e := h.store.Get()
	if e == nil {
		h.writeError(w, http.StatusServiceUnavailable, "search engine not ready")
		return
	}

	var result *engine.SearchResult
	cacheHit := false
	if h.cache != nil {
		var err error
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, limit, func() (*engine.SearchResult, error) {
			return e.Search(query, limit), nil
		})
		if err != nil {
			log.Error("cached search failed", "query", query, "error", err)
			h.writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
	} else {
		result = e.Search(query, limit)
	}

	latencyMs := time.Since(start).Milliseconds()
	span.SetAttr("query", query)
	span.SetAttr("total_hits", result.Total)
	span.SetAttr("cache_hit", cacheHit)

	log.Info("search completed",
		"query", query,
		"total_hits", result.Total,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)

	if h.metrics != nil {
		resultType := "hit"
		if result.Total == 0 {
			resultType = "zero_result"
		}
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
		h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}

	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Type:      analytics.EventSearch,
			Query:     query,
			Terms:     searchquery.PositiveTerms(searchquery.Lex(query)),
			TotalHits: result.Total,
			Returned:  len(result.Results),
			LatencyMs: latencyMs,
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, paginate(result, page))
}

type pagedResult struct {
	Results []engine.Result `json:"results"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
}

func paginate(result *engine.SearchResult, page int) pagedResult {
	pages := (len(result.Results) + resultsPerPage - 1) / resultsPerPage
	start := (page - 1) * resultsPerPage
	if start > len(result.Results) {
		start = len(result.Results)
	}
	end := start + resultsPerPage
	if end > len(result.Results) {
		end = len(result.Results)
	}
	return pagedResult{
		Results: result.Results[start:end],
		Total:   result.Total,
		Page:    page,
		Pages:   pages,
	}
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	e := h.store.Get()
	if e == nil {
		h.writeError(w, http.StatusServiceUnavailable, "search engine not ready")
		return
	}
	h.writeJSON(w, http.StatusOK, e.Stats())
}

// Zipf handles GET /api/zipf?limit=L.
func (h *Handler) Zipf(w http.ResponseWriter, r *http.Request) {
	e := h.store.Get()
	if e == nil {
		h.writeError(w, http.StatusServiceUnavailable, "search engine not ready")
		return
	}
	limit := h.parseIntParam(r, "limit", 0, 0, 1<<30)
	entries, totalUnique, totalTerms := e.ZipfTop(limit)

	data := make([]zipfRow, len(entries))
	for i, entry := range entries {
		rank := float64(entry.Rank)
		freq := float64(entry.Frequency)
		row := zipfRow{
			Rank:           entry.Rank,
			Term:           entry.Term,
			Frequency:      entry.Frequency,
			ZipfPrediction: entry.ZipfPrediction,
		}
		if rank > 0 {
			row.LogRank = logSafe(rank)
		}
		if freq > 0 {
			row.LogFrequency = logSafe(freq)
		}
		data[i] = row
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"total_unique": totalUnique,
		"total_terms":  totalTerms,
		"data":         data,
	})
}

type zipfRow struct {
	Rank           int     `json:"rank"`
	Term           string  `json:"term"`
	Frequency      int     `json:"frequency"`
	LogRank        float64 `json:"log_rank"`
	LogFrequency   float64 `json:"log_frequency"`
	ZipfPrediction float64 `json:"zipf_prediction"`
}

// Document handles GET /api/document?url=...
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	e := h.store.Get()
	if e == nil {
		h.writeError(w, http.StatusServiceUnavailable, "search engine not ready")
		return
	}
	url := r.URL.Query().Get("url")
	doc, ok := e.Document(url)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

// Dump handles POST /api/dump.
func (h *Handler) Dump(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Dump(h.snapshotPath); err != nil {
		h.logger.Error("dump failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "dump failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) parseIntParam(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return def
	}
	if v > max {
		return max
	}
	return v
}

func logSafe(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Round(math.Log10(v)*1e4) / 1e4
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
