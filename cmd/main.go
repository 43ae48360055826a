package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"updategen/internal/config"
	"updategen/internal/generator"
	"updategen/internal/guardrails"
	"updategen/internal/httpserver"
	"updategen/internal/provider"
	"updategen/internal/ratelimit"
	"updategen/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	store, err := initStore(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize rate-limit store",
			"error", err,
			"storePath", cfg.RateLimitStorePath)

		return
	}

	limiter := ratelimit.NewLimiter(
		store,
		cfg.RateLimitPerClient,
		cfg.RateLimitWindow,
		cfg.RateLimitGlobalDaily,
		log)
	defer func() {
		if err = limiter.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close rate-limit store",
				"error", err)
		}
	}()
	log.InfoContext(ctx, "Rate limiter is initialized",
		"perClientLimit", cfg.RateLimitPerClient,
		"window", cfg.RateLimitWindow.String(),
		"globalDailyLimit", cfg.RateLimitGlobalDaily,
		"persistent", cfg.RateLimitStorePath != "")

	gate := guardrails.New(cfg.GenerationEnabled, limiter)
	if !cfg.GenerationEnabled {
		log.WarnContext(ctx, "Generation is disabled so all requests will be rejected",
			"envVar", "GENERATION_ENABLED")
	}

	gen := initTextGenerator(ctx, cfg, log)
	pipeline := generator.NewPipeline(gen, cfg.Provider, cfg.MaxOutputChars, log)

	sched := scheduler.New(ctx, limiter, log)
	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.SweepSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.SweepSpec,
		"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

	router := httpserver.NewRouter(httpserver.Deps{
		Gate:             gate,
		Pipeline:         pipeline,
		MaxInputChars:    cfg.MaxInputChars,
		TelemetryEnabled: cfg.TelemetryEnabled,
		TelemetrySalt:    cfg.TelemetrySalt,
		Log:              log,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Server failed",
				"error", err,
				"addr", cfg.Addr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.Addr)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down server",
			"error", err)
	}

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initStore(ctx context.Context, cfg config.Config, log *slog.Logger) (ratelimit.Store, error) {
	path := strings.TrimSpace(cfg.RateLimitStorePath)
	if path == "" {
		log.InfoContext(ctx, "Using in-memory rate-limit store",
			"sweepInterval", cfg.RateLimitSweepInterval.String())

		return ratelimit.NewMemoryStore(cfg.RateLimitSweepInterval), nil
	}

	store, err := ratelimit.NewSQLiteStore(ctx, path, log)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "Using sqlite rate-limit store",
		"storePath", path)

	return store, nil
}

func initTextGenerator(ctx context.Context, cfg config.Config, log *slog.Logger) provider.TextGenerator {
	if !provider.Supported(cfg.Provider) {
		log.WarnContext(ctx, "Unsupported provider so requests will fail",
			"provider", cfg.Provider)

		return nil
	}

	apiKey := strings.TrimSpace(cfg.OpenAIAPIKey)
	if apiKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so stub generation will be used",
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	log.InfoContext(ctx, "OpenAI client is initialized",
		"provider", cfg.Provider,
		"model", cfg.OpenAIModel,
		"timeout", cfg.ProviderTimeout.String())

	return provider.NewOpenAIClient(apiKey, cfg.OpenAIModel, cfg.ProviderTimeout)
}
