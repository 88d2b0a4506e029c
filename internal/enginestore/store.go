// Package enginestore holds the single, hot-swappable search engine.Engine
// instance shared by the HTTP surface and the admin control plane. A
// rebuild constructs a fresh Engine off to the side and swaps it in
// atomically, so in-flight searches against the old Engine always finish
// cleanly against a consistent snapshot of the index.
package enginestore

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
)

// Store is safe for concurrent use.
type Store struct {
	ptr    atomic.Pointer[engine.Engine]
	logger *slog.Logger
}

// New wraps an already-built Engine.
func New(e *engine.Engine, logger *slog.Logger) *Store {
	s := &Store{logger: logger}
	s.ptr.Store(e)
	return s
}

// Get returns the currently active Engine.
func (s *Store) Get() *engine.Engine {
	return s.ptr.Load()
}

// Rebuild reads corpusPath, builds a new Engine, and swaps it in. The
// previous Engine remains valid for any search already in flight against it.
func (s *Store) Rebuild(corpusPath string) (*engine.Engine, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", corpusPath, err)
	}
	defer f.Close()

	docs, err := corpus.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", corpusPath, err)
	}

	start := time.Now()
	e := engine.Build(docs, s.logger)
	s.ptr.Store(e)
	if s.logger != nil {
		s.logger.Info("engine rebuilt and swapped in", "documents", len(docs), "elapsed", time.Since(start).String())
	}
	return e, nil
}

// Dump persists the currently active Engine's state to path.
func (s *Store) Dump(path string) error {
	e := s.Get()
	if e == nil {
		return fmt.Errorf("no engine loaded")
	}
	return e.Dump(path)
}
