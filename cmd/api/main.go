package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/booking-assistant/cmd/mainconfig"
	appconfig "github.com/wolfman30/booking-assistant/internal/config"
	"github.com/wolfman30/booking-assistant/internal/dialog"
	"github.com/wolfman30/booking-assistant/internal/httpapi"
	"github.com/wolfman30/booking-assistant/internal/knowledge"
	"github.com/wolfman30/booking-assistant/internal/llm"
	"github.com/wolfman30/booking-assistant/internal/notify"
	"github.com/wolfman30/booking-assistant/internal/observability/metrics"
	"github.com/wolfman30/booking-assistant/internal/registry"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Language model clients. The server runs without one; extraction and
	// document Q&A are simply disabled.
	var llmClient llm.Client
	var embedder knowledge.Embedder
	switch cfg.LLMProvider {
	case "bedrock":
		bedrockAPI := bedrockruntime.NewFromConfig(awsCfg)
		bedrockClient := llm.NewBedrockClient(bedrockAPI)
		embedder = llm.NewBedrockEmbeddingClient(bedrockAPI)
		llmClient = bedrockClient
		if cfg.GeminiAPIKey != "" {
			gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
			if err != nil {
				logger.Warn("gemini fallback unavailable", "error", err)
			} else {
				defer gemini.Close()
				llmClient = llm.NewFallbackClient(bedrockClient, gemini, logger)
			}
		}
	case "gemini":
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
	case "none":
		logger.Info("no language model configured, deterministic extraction only")
	default:
		logger.Error("unknown LLM_PROVIDER", "provider", cfg.LLMProvider)
		os.Exit(1)
	}

	var extractor dialog.EntityExtractor
	if llmClient != nil {
		extractor = dialog.NewLLMExtractor(llmClient, dialog.LLMExtractorConfig{
			Model:   cfg.BedrockModelID,
			Timeout: cfg.ExtractorTimeout,
		}, logger)
	}

	// Document Q&A needs both a completion model and an embedder.
	var kb dialog.KnowledgeBase
	var ingestor knowledge.Ingestor
	if llmClient != nil && embedder != nil {
		store := knowledge.NewMemoryStore(embedder, cfg.BedrockEmbeddingModelID, logger)
		ingestor = store
		kb = knowledge.NewService(knowledge.ServiceConfig{
			Store:  store,
			Client: llmClient,
			Model:  cfg.BedrockModelID,
			TopK:   cfg.KnowledgeTopK,
			Logger: logger,
		})
	} else {
		logger.Info("document q&a disabled")
	}

	sessions, cleanup, err := buildSessionStore(cfg, logger)
	if err != nil {
		logger.Error("failed to build session store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var customers dialog.CustomerRegistry
	var bookings dialog.BookingRegistry
	var lister httpapi.BookingLister
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store := registry.NewPostgresStore(pool)
		customers, bookings, lister = store, store, store
		logger.Info("booking registry backed by postgres")
	} else {
		store := registry.NewDemoStore()
		customers, bookings, lister = store, store, store
		logger.Warn("DATABASE_URL not set, bookings kept in memory only")
	}

	notifier := notify.NewService(buildEmailSender(cfg, awsCfg, logger), logger)

	engine := dialog.NewEngine(dialog.EngineConfig{
		Extractor: extractor,
		Knowledge: kb,
		Customers: customers,
		Bookings:  bookings,
		Notifier:  notifier,
		Sessions:  sessions,
		Metrics:   metrics.NewDialogMetrics(nil),
		Logger:    logger.WithComponent("dialog"),
	})

	router := httpapi.New(&httpapi.Config{
		Logger:             logger,
		Chat:               httpapi.NewChatHandler(engine, logger.WithComponent("chat")),
		Knowledge:          httpapi.NewKnowledgeHandler(ingestor, logger.WithComponent("knowledge")),
		Bookings:           httpapi.NewBookingsHandler(lister, logger.WithComponent("bookings")),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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
	fmt.Println("Server exited gracefully")
}

func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) (dialog.SessionStore, func(), error) {
	if cfg.SessionStore != "redis" {
		logger.Info("sessions kept in memory")
		return dialog.NewMemorySessionStore(cfg.SessionTTL), func() {}, nil
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("sessions backed by redis", "addr", cfg.RedisAddr)
	return dialog.NewRedisSessionStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

func buildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY missing, confirmations will be stubbed")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "ses":
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
