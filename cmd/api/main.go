package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/laylabot/leasing-agent/internal/api/router"
	"github.com/laylabot/leasing-agent/internal/booking"
	appconfig "github.com/laylabot/leasing-agent/internal/config"
	"github.com/laylabot/leasing-agent/internal/conversation"
	"github.com/laylabot/leasing-agent/internal/crm"
	"github.com/laylabot/leasing-agent/internal/observability/metrics"
	"github.com/laylabot/leasing-agent/internal/search"
	"github.com/laylabot/leasing-agent/internal/tools"
	"github.com/laylabot/leasing-agent/pkg/logging"
)

func main() {
	// Optional .env for local runs; production uses real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leasing-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Property catalog and tour calendars.
	index := search.NewInMemoryIndex(search.DemoListings())
	slots := booking.NewStore(booking.WithWindowDays(cfg.TourWindowDays))
	validator := booking.NewSmartValidator(slots, logger)

	// Lead storage: postgres when configured, in-memory otherwise.
	var leadsRepo crm.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = crm.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory lead storage")
		leadsRepo = crm.NewInMemoryRepository()
	}

	dispatcher := tools.NewDispatcher(index, slots, validator, leadsRepo, logger,
		tools.WithSearchLimit(cfg.SearchLimit))

	decider, err := conversation.NewGeminiDecider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create gemini decider", "error", err)
		os.Exit(1)
	}
	defer decider.Close()

	convMetrics := metrics.NewConversationMetrics(nil)
	engine := conversation.NewEngine(decider, dispatcher, logger,
		conversation.WithMetrics(convMetrics))

	// Conversation state: redis when configured, otherwise clients carry
	// the state in the request body.
	var stateStore conversation.StateStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		stateStore = conversation.NewRedisStateStore(redisClient, cfg.StateTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, conversation state is client-carried only")
	}

	chatHandler := conversation.NewHandler(engine, stateStore, cfg.APIKey, logger)
	leadsHandler := crm.NewHandler(leadsRepo, logger)

	r := router.New(&router.Config{
		Logger:                logger,
		ChatHandler:           chatHandler,
		LeadsHandler:          leadsHandler,
		MetricsHandler:        promhttp.Handler(),
		CORSAllowedOrigins:    splitOrigins(cfg.CORSOrigins),
		APIKey:                cfg.APIKey,
		ChatRequestsPerMinute: cfg.ChatRequestsPerMinute,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestBudget,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func splitOrigins(raw string) []string {
	var out []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
