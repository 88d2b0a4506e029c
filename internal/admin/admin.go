// Package admin wires the engine store to the internal JSON-over-TCP RPC
// control plane, letting an operator trigger a remote rebuild or snapshot
// dump without restarting the process.
package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics/collector"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/enginestore"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/grpc"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/proto"
)

// Server exposes Engine.Rebuild, Engine.Dump, and Engine.Stats over the
// admin RPC listener.
type Server struct {
	rpc     *grpc.Server
	store   *enginestore.Store
	cache   *cache.QueryCache            // may be nil when Redis isn't configured
	rebuilds *collector.BatchCollector    // may be nil when Kafka isn't configured
	cfg     config.EngineConfig
	logger  *slog.Logger
}

// NewServer registers the admin RPC methods. cache and rebuilds may be nil.
//
// Rebuilds are infrequent, operator-triggered events, unlike the
// per-request SearchEvent stream: a BatchCollector's size/interval-flushed
// buffer fits that cadence better than the low-latency per-query collector
// used for search traffic.
func NewServer(store *enginestore.Store, c *cache.QueryCache, rebuilds *collector.BatchCollector, cfg config.EngineConfig) *Server {
	s := &Server{
		rpc:      grpc.NewServer(),
		store:    store,
		cache:    c,
		rebuilds: rebuilds,
		cfg:      cfg,
		logger:   slog.Default().With("component", "admin"),
	}
	s.rpc.Register("Engine.Rebuild", s.handleRebuild)
	s.rpc.Register("Engine.Dump", s.handleDump)
	s.rpc.Register("Engine.Stats", s.handleStats)
	return s
}

// Serve blocks accepting admin connections on addr.
func (s *Server) Serve(addr string) error {
	s.logger.Info("admin control plane listening", "addr", addr)
	return s.rpc.Serve(addr)
}

// Stop gracefully shuts the admin listener down.
func (s *Server) Stop() {
	s.rpc.Stop()
}

func (s *Server) handleRebuild(ctx context.Context, raw json.RawMessage) (any, error) {
	var req proto.RebuildRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	path := req.CorpusPath
	if path == "" {
		path = s.cfg.CorpusPath
	}

	start := time.Now()
	e, err := s.store.Rebuild(path)
	if err != nil {
		return proto.RebuildResponse{Success: false, Message: err.Error()}, nil
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation after rebuild failed", "error", err)
		}
	}
	stats := e.Stats()
	if s.rebuilds != nil {
		s.rebuilds.Track("index", analytics.IndexEvent{
			Type:          analytics.EventIndexDoc,
			DocumentCount: stats.Documents,
			TokenCount:    int(stats.TotalTerms),
			LatencyMs:     time.Since(start).Milliseconds(),
			Timestamp:     start,
		})
	}
	return proto.RebuildResponse{
		Success:     true,
		Message:     "rebuild complete",
		Documents:   int32(stats.Documents),
		IndexTimeMs: int64(stats.IndexTimeMs),
	}, nil
}

func (s *Server) handleDump(ctx context.Context, raw json.RawMessage) (any, error) {
	var req proto.DumpRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	path := req.Path
	if path == "" {
		path = s.cfg.SnapshotPath
	}
	if err := s.store.Dump(path); err != nil {
		return proto.DumpResponse{Success: false, Message: err.Error(), Path: path}, nil
	}
	return proto.DumpResponse{Success: true, Message: "dump complete", Path: path}, nil
}

func (s *Server) handleStats(ctx context.Context, raw json.RawMessage) (any, error) {
	stats := s.store.Get().Stats()
	return proto.StatsResponse{
		Documents:   int32(stats.Documents),
		Vocabulary:  int32(stats.Vocabulary),
		TotalTerms:  int64(stats.TotalTerms),
		UniqueTerms: int32(stats.UniqueTerms),
		IndexTimeMs: int64(stats.IndexTimeMs),
		Status:      stats.Status,
	}, nil
}
