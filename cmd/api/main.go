package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Marser321/punta-360-sub001/internal/api/router"
	appconfig "github.com/Marser321/punta-360-sub001/internal/config"
	"github.com/Marser321/punta-360-sub001/internal/concierge"
	"github.com/Marser321/punta-360-sub001/internal/dashboard"
	"github.com/Marser321/punta-360-sub001/internal/leadchat"
	"github.com/Marser321/punta-360-sub001/internal/leads"
	"github.com/Marser321/punta-360-sub001/internal/notify"
	"github.com/Marser321/punta-360-sub001/internal/observability/metrics"
	"github.com/Marser321/punta-360-sub001/internal/properties"
	"github.com/Marser321/punta-360-sub001/internal/webchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting punta360 API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	chatMetrics := metrics.NewChatMetrics(nil)

	// Postgres (optional: in-memory repos without it)
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
	}

	var leadsRepo leads.Repository
	var propertiesRepo properties.Repository
	var dashboardHandler *dashboard.Handler
	if pool != nil {
		leadsRepo = leads.NewPostgresRepository(pool)
		propertiesRepo = properties.NewPostgresRepository(pool)
		dashboardHandler = dashboard.NewHandler(dashboard.NewStatsRepository(pool), nil, logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		leadsRepo = leads.NewInMemoryRepository()
		propertiesRepo = properties.NewInMemoryRepository()
		dashboardHandler = dashboard.NewHandler(nil, nil, logger)
	}

	// Chat session store: redis with a sliding TTL, memory as fallback.
	var sessionStore leadchat.SessionStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, using in-memory session store", "error", err)
			sessionStore = leadchat.NewMemorySessionStore()
		} else {
			sessionStore = leadchat.NewRedisSessionStore(redisClient, cfg.ChatSessionTTL, nil)
		}
	} else {
		sessionStore = leadchat.NewMemorySessionStore()
	}

	// AWS clients (Bedrock fallback LLM, S3 media, SES email)
	awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Concierge LLM: Gemini primary, Bedrock secondary when configured.
	var llmClient concierge.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := concierge.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to init gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
	}
	if cfg.BedrockModelID != "" {
		bedrock := concierge.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
		if llmClient != nil {
			llmClient = concierge.NewFallbackClient(llmClient, bedrock, logger.Logger)
		} else {
			llmClient = bedrock
		}
	}

	var responder leadchat.Responder
	if llmClient != nil {
		responder = concierge.NewResponder(llmClient, cfg.GeminiModelID, cfg.ContactWhatsApp, chatMetrics, logger)
	} else {
		logger.Warn("no LLM configured, concierge disabled")
	}

	// Lead notifications
	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		// Keep the interface nil when the constructor returns a nil pointer.
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			emailSender = s
		} else {
			logger.Warn("sendgrid selected but not configured, lead notifications disabled")
		}
	case "ses":
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); s != nil {
			emailSender = s
		}
	case "stub":
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, cfg.SalesInboxEmail, cfg.SalesInboxName, logger)

	var sink leadchat.LeadSink
	if notifier.Enabled() {
		sink = leads.NewRecorder(leadsRepo, notifier, logger)
	} else {
		sink = leads.NewRecorder(leadsRepo, nil, logger)
	}

	// Chat engine
	engine := leadchat.NewEngine(
		sessionStore,
		sink,
		responder,
		properties.NewContextSource(propertiesRepo),
		chatMetrics,
		logger,
	)

	// Listing tools
	var generator *properties.DescriptionGenerator
	if llmClient != nil {
		generator = properties.NewDescriptionGenerator(llmClient, cfg.GeminiModelID)
	}
	var mediaStore *properties.MediaStore
	if cfg.MediaBucket != "" {
		mediaStore = properties.NewMediaStore(
			s3.NewFromConfig(awsCfg),
			cfg.MediaBucket,
			cfg.MediaPublicBaseURL,
			propertiesRepo,
			logger,
		)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        webchat.NewHandler(engine, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		PropertiesHandler:  properties.NewHandler(propertiesRepo, generator, mediaStore, logger),
		DashboardHandler:   dashboardHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRatePerSecond:  cfg.ChatRatePerSecond,
		ChatRateBurst:      cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
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
}
