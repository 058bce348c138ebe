package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/catalog"
	"github.com/homegrid/intentd/internal/config"
	"github.com/homegrid/intentd/internal/db"
	dbMemory "github.com/homegrid/intentd/internal/db/memory"
	dbRedis "github.com/homegrid/intentd/internal/db/redis"
	"github.com/homegrid/intentd/internal/domain"
	logpkg "github.com/homegrid/intentd/internal/logger"
	"github.com/homegrid/intentd/internal/metrics"
	"github.com/homegrid/intentd/internal/repository/embcache"
	"github.com/homegrid/intentd/internal/transport/httpapi"
	openaiT "github.com/homegrid/intentd/internal/transport/openai"
	embeddinguc "github.com/homegrid/intentd/internal/usecase/embedding"
	"github.com/homegrid/intentd/internal/usecase/extract"
	generationuc "github.com/homegrid/intentd/internal/usecase/generation"
	healthuc "github.com/homegrid/intentd/internal/usecase/health"
	"github.com/homegrid/intentd/internal/usecase/rank"
	"github.com/homegrid/intentd/internal/usecase/resolve"
	"github.com/homegrid/intentd/internal/version"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting intentd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("snapshot_path", cfg.Catalog.SnapshotPath),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Embedding cache backend
	var store db.Store
	switch cfg.Cache.Driver {
	case "memory":
		store = dbMemory.NewStore()
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache backend not ready", zap.Error(err))
		}
		logger.Info("Connected to cache backend", zap.Strings("addrs", cfg.Cache.Addrs))
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}
	defer store.Close()

	// Catalog snapshot
	catalogStore := catalog.NewStore(
		catalog.NewFileSource(cfg.Catalog.SnapshotPath), logger,
	)
	if _, err := catalogStore.Load(context.Background()); err != nil {
		logger.Fatal("Failed to load catalog snapshot", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.String("version", catalogStore.Version()))

	// Embedder chain: OpenAI -> Cached -> Instrumented -> Instruction
	embedder, embedderHealth := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Generator chain: OpenAI -> CircuitBreaker
	baseGen := openaiT.NewGenerator(&openaiT.GeneratorConfig{
		APIKey:   cfg.Generation.APIKey,
		BaseURL:  cfg.Generation.BaseURL,
		Model:    cfg.Generation.Model,
		Provider: cfg.Generation.Provider,
		Logger:   logger,
	})
	generator := generationuc.NewBreakerGenerator(baseGen, generationuc.DefaultBreakerConfig(), logger)
	logger.Info("Generator created",
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", cfg.Generation.Model),
	)

	extractor := extract.New(generator, logger)

	resolver := resolve.New(
		catalogStore, rank.New(), embedder, extractor, generator, logger,
	).WithTopK(
		cfg.Resolver.TextTopK, cfg.Resolver.ImageTopK, cfg.Resolver.DocumentTopK,
	).WithTimeouts(
		time.Duration(cfg.Resolver.EmbedTimeoutSec)*time.Second,
		time.Duration(cfg.Resolver.GenerateTimeoutSec)*time.Second,
	)

	healthSvc := healthuc.New(catalogStore, embedderHealth, baseGen, store)

	server := httpapi.NewServer(resolver, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// The base provider is returned separately so health checks hit the API, not the cache.
func buildEmbedder(
	cfg config.Config, store db.Store, logger *zap.Logger,
) (domain.Embedder, domain.HealthChecker) {
	base := openaiT.NewEmbedder(&openaiT.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = embcache.New(
		base, store,
		cfg.Embedding.Model,
		time.Duration(cfg.Cache.TTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal,
		logger,
	)

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	)

	// Instruction prefix (outermost so the cache key excludes it only when absent)
	if cfg.Embedding.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}

	return embedder, base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
