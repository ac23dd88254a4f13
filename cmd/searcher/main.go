package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("search service failed", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	engine, err := indexer.NewEngine(cfg.Index, cfg.Ingest, m)
	if err != nil {
		return err
	}
	report, err := engine.Load(ctx, "")
	if err != nil {
		return err
	}

	checker := health.NewChecker()
	checker.Register("index", func(context.Context) health.ComponentHealth {
		st := engine.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d distinct words", st.Documents, st.DistinctWords),
		}
	})

	opts := []handler.Option{handler.WithMetrics(m)}

	if cfg.Redis.Enabled {
		redisClient, err := resilience.RetryValue(ctx, "redis connect", resilience.RetryConfig{},
			func(ctx context.Context) (*pkgredis.Client, error) {
				return pkgredis.NewClient(ctx, cfg.Redis)
			})
		if err != nil {
			slog.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			breaker := resilience.NewBreaker("redis", resilience.BreakerConfig{})
			opts = append(opts, handler.WithCache(cache.New(cache.Guard(redisClient, breaker), cfg.Redis.CacheTTL)))
			checker.Register("redis", health.PingCheck(redisClient.Ping))
			slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var publisher analytics.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = producer
		slog.Info("analytics publishing enabled", "topic", cfg.Kafka.AnalyticsTopic)
	}
	aggregator := analytics.NewAggregator()
	collector := analytics.NewCollector(aggregator, publisher, analytics.CollectorConfig{
		BufferSize: cfg.Kafka.EventBufferSize,
	})
	collector.Start(ctx)
	opts = append(opts, handler.WithCollector(collector))
	collector.Track(analytics.IndexEvent{
		Type:      analytics.EventIndexLoad,
		Path:      cfg.Index.PersistencePath,
		Documents: engine.Index().DocumentCount(),
		Problems:  len(report.Problems),
		Timestamp: time.Now().UTC(),
	})

	var store *analytics.SnapshotStore
	snapshotsDone := make(chan struct{})
	if cfg.Postgres.Enabled {
		db, err := resilience.RetryValue(ctx, "postgres connect", resilience.RetryConfig{},
			func(ctx context.Context) (*sql.DB, error) {
				return postgres.Open(ctx, cfg.Postgres)
			})
		if err != nil {
			slog.Warn("postgres unavailable, analytics snapshots disabled", "error", err)
		} else {
			defer db.Close()
			store = analytics.NewSnapshotStore(db)
			if err := resilience.Retry(ctx, "analytics schema", resilience.RetryConfig{}, store.EnsureSchema); err != nil {
				return err
			}
			checker.Register("postgres", health.PingCheck(db.PingContext))
			go func() {
				defer close(snapshotsDone)
				store.Run(ctx, aggregator, cfg.Postgres.SnapshotInterval)
			}()
		}
	}
	if store == nil {
		close(snapshotsDone)
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(m),
		middleware.CORS(cfg.Server.AllowOrigins),
	)

	api := router.Group("/api/v1", middleware.Timeout(cfg.Server.WriteTimeout))
	if cfg.Server.RateLimit > 0 {
		api.Use(middleware.RateLimit(middleware.NewLimiter(cfg.Server.RateLimit, time.Minute)))
	}
	handler.New(engine, cfg.Search, opts...).Register(api)
	analyticsHandler := analytics.NewHandler(aggregator, store)
	api.GET("/analytics", analyticsHandler.Stats)
	api.GET("/analytics/snapshots", analyticsHandler.Snapshots)
	api.GET("/analytics/snapshots/latest", analyticsHandler.LatestSnapshot)

	router.GET("/health/live", checker.LiveHandler)
	router.GET("/health/ready", checker.ReadyHandler)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening",
		"addr", server.Addr,
		"documents", engine.Index().DocumentCount(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// In-flight requests still track events until Shutdown returns.
	<-shutdownDone
	collector.Close()
	<-snapshotsDone
	return nil
}
