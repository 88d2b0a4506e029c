// Command linguasearch builds a search engine over an NDJSON corpus and
// serves it either as an interactive REPL or an HTTP API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/admin"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/analytics/collector"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/api/router"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/enginestore"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/redis"
)

func main() {
	serve := flag.Bool("serve", false, "serve the HTTP API instead of the interactive REPL")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	input := flag.String("input", "", "NDJSON corpus path (overrides config)")
	dumpPath := flag.String("dump", "", "snapshot path (overrides config)")
	rebuild := flag.Bool("rebuild", false, "ignore any existing snapshot and re-index from the corpus")
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *input != "" {
		cfg.Engine.CorpusPath = *input
	}
	if *dumpPath != "" {
		cfg.Engine.SnapshotPath = *dumpPath
	}
	if *rebuild {
		cfg.Engine.Rebuild = true
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting linguasearch", "corpus", cfg.Engine.CorpusPath, "snapshot", cfg.Engine.SnapshotPath)

	e := loadOrBuildEngine(cfg)
	if e.Stats().Documents == 0 {
		slog.Error("no documents loaded, exiting")
		os.Exit(1)
	}

	store := enginestore.New(e, slog.Default().With("component", "engine"))

	if *serve {
		runServer(cfg, store)
		return
	}
	runREPL(store, cfg.Engine.SnapshotPath)
}

func loadOrBuildEngine(cfg *config.Config) *engine.Engine {
	if !cfg.Engine.Rebuild {
		if e, err := engine.LoadSnapshot(cfg.Engine.SnapshotPath); err == nil {
			slog.Info("loaded engine from snapshot", "path", cfg.Engine.SnapshotPath, "documents", e.Stats().Documents)
			return e
		} else {
			slog.Warn("snapshot unavailable, falling back to corpus ingest", "path", cfg.Engine.SnapshotPath, "error", err)
		}
	}

	f, err := os.Open(cfg.Engine.CorpusPath)
	if err != nil {
		slog.Error("failed to open corpus", "path", cfg.Engine.CorpusPath, "error", err)
		return engine.Build(nil, slog.Default())
	}
	defer f.Close()

	docs, err := corpus.ReadAll(f)
	if err != nil {
		slog.Error("failed to read corpus", "path", cfg.Engine.CorpusPath, "error", err)
		return engine.Build(nil, slog.Default())
	}
	return engine.Build(docs, slog.Default())
}

func runServer(cfg *config.Config, store *enginestore.Store) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		metricsShutdown := metrics.StartServer(cfg.Metrics.Port)
		defer metricsShutdown(context.Background())
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Addr != "" {
		var err error
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var searchCollector *analytics.Collector
	var rebuildCollector *collector.BatchCollector
	if len(cfg.Kafka.Brokers) > 0 {
		searchProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.SearchEvents)
		searchCollector = analytics.NewCollector(searchProducer, 10000)
		searchCollector.Start(ctx)
		defer searchCollector.Close()
		slog.Info("analytics collector started", "topic", cfg.Kafka.SearchEvents)

		indexProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.IndexEvents)
		rebuildCollector = collector.NewBatchCollector(indexProducer, 1, 30*time.Second)
		rebuildCollector.Start(ctx)
		defer rebuildCollector.Close()
	}

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		if store.Get() != nil {
			return health.ComponentHealth{Status: health.StatusUp}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "no engine loaded"}
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := handler.New(store, queryCache, searchCollector, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults, cfg.Engine.SnapshotPath)
	chain := router.New(h, checker, m, router.Config{
		RequestTimeout:  cfg.Server.RequestTimeout,
		RateLimitPerMin: 600,
	})

	if cfg.Admin.Enabled {
		adminSrv := admin.NewServer(store, queryCache, rebuildCollector, cfg.Engine)
		go func() {
			if err := adminSrv.Serve(cfg.Admin.Addr); err != nil {
				slog.Error("admin control plane error", "error", err)
			}
		}()
		defer adminSrv.Stop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("linguasearch listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("linguasearch stopped")
}

func runREPL(store *enginestore.Store, defaultDump string) {
	fmt.Println("linguasearch ready. type :help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if handleREPLCommand(store, line, defaultDump) {
			return
		}
	}
}

// handleREPLCommand returns true when the REPL should exit.
func handleREPLCommand(store *enginestore.Store, line, defaultDump string) bool {
	switch {
	case line == ":quit" || line == ":exit" || line == "quit" || line == "exit":
		return true
	case line == ":help":
		fmt.Println(`commands:
  :help            show this message
  :stats           show engine statistics
  :zipf [N]        show the top N terms by frequency (default 20)
  :dump [path]     write a snapshot to path (or the default snapshot path)
  :quit            exit (aliases: :exit, quit, exit)
  anything else is run as a search query`)
	case line == ":stats":
		printStats(store)
	case strings.HasPrefix(line, ":zipf"):
		n := 20
		if fields := strings.Fields(line); len(fields) > 1 {
			if parsed, err := strconv.Atoi(fields[1]); err == nil {
				n = parsed
			}
		}
		printZipf(store, n)
	case strings.HasPrefix(line, ":dump"):
		path := defaultDump
		if fields := strings.Fields(line); len(fields) > 1 {
			path = fields[1]
		}
		runDump(store, path)
	default:
		runQuery(store, line)
	}
	return false
}

func printStats(store *enginestore.Store) {
	stats := store.Get().Stats()
	fmt.Printf("documents=%d vocabulary=%d total_terms=%d unique_terms=%d index_time_ms=%d\n",
		stats.Documents, stats.Vocabulary, stats.TotalTerms, stats.UniqueTerms, stats.IndexTimeMs)
}

func printZipf(store *enginestore.Store, n int) {
	entries, totalUnique, totalTerms := store.Get().ZipfTop(n)
	fmt.Printf("total_unique=%d total_terms=%d\n", totalUnique, totalTerms)
	for _, e := range entries {
		fmt.Printf("  #%-4d %-20s freq=%-6d zipf_prediction=%.2f\n", e.Rank, e.Term, e.Frequency, e.ZipfPrediction)
	}
}

func runDump(store *enginestore.Store, path string) {
	if path == "" {
		fmt.Println("usage: :dump <path>")
		return
	}
	if err := store.Dump(path); err != nil {
		fmt.Printf("dump failed: %v\n", err)
		return
	}
	fmt.Printf("dumped to %s\n", path)
}

func runQuery(store *enginestore.Store, query string) {
	start := time.Now()
	result := store.Get().Search(query, 20)
	elapsed := time.Since(start)
	fmt.Printf("%d results (%s)\n", result.Total, elapsed.Round(time.Microsecond))
	for i, r := range result.Results {
		fmt.Printf("%2d. [%.4f] %s — %s\n    %s\n", i+1, r.Score, r.Title, r.URL, r.Snippet)
	}
}
