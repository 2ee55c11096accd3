// Command server starts the interview analysis HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/ai/stub"
	httpserver "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/app"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, generation, and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool with startup retry, then schema
	ctx := context.Background()
	pool, err := postgres.ConnectWithRetry(ctx, cfg.DBURL, cfg.DBConnectMaxElapsed)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("db migrate failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	interviewRepo := postgres.NewInterviewRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	analysisRepo := postgres.NewAnalysisRepo(pool)

	// Text generator: constructed once here and injected into the pipeline;
	// stages never look it up via ambient state.
	var gen domain.TextGenerator
	if cfg.UseStubGenerator() {
		gen = stub.New()
		slog.Info("using stub text generator")
	} else {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("gemini client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		gen = g
		slog.Info("using gemini text generator", slog.String("model", cfg.GeminiModel))
	}
	gen = ai.NewInstrumentedGenerator(gen)

	// Usecases
	analyzeSvc := usecase.NewAnalyzeService(interviewRepo, jobRepo, analysisRepo, gen, cfg.AnalysisTimeout)
	querySvc := usecase.NewAnalysisQueryService(analysisRepo)

	dbCheck := func(ctx context.Context) error { return pool.Ping(ctx) }
	srv := httpserver.NewServer(cfg, analyzeSvc, querySvc, dbCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
