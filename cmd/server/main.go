package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assessmate.app/casenote/common/id"
	commonllm "assessmate.app/casenote/common/llm"
	"assessmate.app/casenote/common/logger"
	"assessmate.app/casenote/common/otel"
	"assessmate.app/casenote/core/config"
	"assessmate.app/casenote/core/db"
	"assessmate.app/casenote/internal/http/middleware"
	httprouter "assessmate.app/casenote/internal/http/router"
	"assessmate.app/casenote/internal/llm"
	"assessmate.app/casenote/internal/service"
	"assessmate.app/casenote/internal/store"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "casenote server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	var stores *store.Stores
	if cfg.DB.Enabled() {
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := store.EnsureSchema(ctx, database.Pool()); err != nil {
			slog.ErrorContext(ctx, "failed to prepare usage ledger", "error", err)
			os.Exit(1)
		}
		stores = store.NewStores(database.Pool())
		slog.InfoContext(ctx, "database connected, usage ledger enabled")
	} else {
		stores = store.NewStores(nil)
		slog.InfoContext(ctx, "usage ledger disabled (no DATABASE_URL)")
	}

	limiter := commonllm.NewLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	analysis := callSite(ctx, "analysis", cfg.AnalysisLLM, limiter)
	generation := callSite(ctx, "generation", cfg.GenerationLLM, limiter)

	services := service.NewServices(
		llm.NewGateway(analysis, generation),
		stores,
		labels(analysis),
		labels(generation),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// generation can take most of a minute
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// callSite builds the provider client for one call. Without a credential the
// client is disabled and every call fails as not configured.
func callSite(ctx context.Context, name string, cfg config.LLMConfig, limiter *rate.Limiter) llm.CallSite {
	var client commonllm.Client
	if cfg.Enabled() {
		c, err := commonllm.New(commonllm.Config{
			Provider: cfg.Provider,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create llm client", "call", name, "error", err)
			os.Exit(1)
		}
		client = c
		slog.InfoContext(ctx, "llm client ready", "call", name, "provider", cfg.Provider, "model", cfg.Model)
	} else {
		client = commonllm.NewDisabled(cfg.Provider, cfg.Model)
		slog.WarnContext(ctx, "llm client not configured", "call", name, "provider", cfg.Provider)
	}

	return llm.CallSite{
		Client:      commonllm.WithRateLimit(client, limiter),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

func labels(site llm.CallSite) service.CallLabels {
	return service.CallLabels{Provider: site.Client.Provider(), Model: site.Client.Model()}
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Session())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		LLMConfigured: cfg.LLMConfigured(),
	})

	return router
}

const banner = `
  ___                           __  __       _
 / _ \ ___ ___  ___  ___ ___   |  \/  | __ _| |_ ___
| |_| / __/ __|/ _ \/ __/ __|  | |\/| |/ _' | __/ _ \
|  _  \__ \__ \  __/\__ \__ \  | |  | | (_| | ||  __/
|_| |_|___/___/\___||___/___/  |_|  |_|\__,_|\__\___|
`
