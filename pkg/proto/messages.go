// Package proto defines the message types exchanged over the internal
// admin control plane (see pkg/grpc). They are hand-written, JSON-tagged
// structs rather than generated Protocol Buffer code, matching the
// lightweight JSON-over-TCP wire format the control plane speaks.
package proto

// HealthCheckResponse mirrors the gRPC health check spec.
type HealthCheckResponse struct {
	Status string `json:"status"` // SERVING, NOT_SERVING, UNKNOWN
}

// ---------- Search ----------

// SearchRequest is the input to the Search RPC.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

// SearchResponse is the output of the Search RPC.
type SearchResponse struct {
	Query     string         `json:"query"`
	TotalHits int32          `json:"total_hits"`
	Results   []SearchResult `json:"results"`
	LatencyMs int64          `json:"latency_ms"`
}

// SearchResult is a single scored document in the result set.
type SearchResult struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Score   float32 `json:"score"`
	Snippet string  `json:"snippet"`
}

// ---------- Stats ----------

// StatsRequest carries no parameters; it exists for symmetry with the
// other RPCs and to leave room for future filtering.
type StatsRequest struct{}

// StatsResponse mirrors engine.Stats.
type StatsResponse struct {
	Documents   int32  `json:"documents"`
	Vocabulary  int32  `json:"vocabulary"`
	TotalTerms  int64  `json:"total_terms"`
	UniqueTerms int32  `json:"unique_terms"`
	IndexTimeMs int64  `json:"index_time_ms"`
	Status      string `json:"status"`
}

// ---------- Admin control plane ----------

// RebuildRequest triggers a full re-index from the configured corpus path.
type RebuildRequest struct {
	CorpusPath string `json:"corpus_path,omitempty"`
}

// RebuildResponse reports the outcome of a rebuild.
type RebuildResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Documents    int32  `json:"documents"`
	IndexTimeMs  int64  `json:"index_time_ms"`
}

// DumpRequest triggers a snapshot write to disk.
type DumpRequest struct {
	Path string `json:"path,omitempty"`
}

// DumpResponse confirms the snapshot write.
type DumpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path"`
}
