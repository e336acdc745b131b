package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"verbum/internal/auth"
	"verbum/internal/config"
	"verbum/internal/domain/repositories"
	"verbum/internal/domain/services"
	"verbum/internal/handler"
	"verbum/internal/middleware"
	"verbum/internal/repository/memory"
	"verbum/internal/repository/postgres"
	"verbum/internal/service/billing"
	"verbum/internal/service/chat"
	"verbum/internal/service/llm/providers/canned"
	"verbum/internal/service/llm/providers/openai"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging. DEBUG defaults on outside prod and can be
	// forced either way per deployment.
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"default_allotment", cfg.DefaultAllotment,
	)

	// Plan catalog (static after startup)
	plans, err := config.LoadPlans(cfg.PlansFile)
	if err != nil {
		log.Fatalf("Failed to load plan catalog: %v", err)
	}
	logger.Info("plan catalog loaded", "plans", len(plans))

	// Stores: postgres when DATABASE_URL is set, otherwise in-memory (dev)
	var ledger repositories.QuotaLedger
	var store repositories.ConversationStore
	var grants repositories.GrantLog
	var txManager repositories.TransactionManager
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		ledger = postgres.NewQuotaLedger(repoConfig, cfg.DefaultAllotment)
		store = postgres.NewConversationStore(repoConfig)
		grants = postgres.NewGrantLog(repoConfig)
		txManager = postgres.NewTransactionManager(pool)

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		ledger = memory.NewQuotaLedger(cfg.DefaultAllotment)
		store = memory.NewConversationStore()
		grants = memory.NewGrantLog()
		logger.Warn("DATABASE_URL not set, using in-memory stores (state is lost on restart)")
	}

	// Completion provider
	var provider services.CompletionProvider
	if cfg.OpenAIAPIKey != "" {
		provider, err = openai.NewProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create completion provider: %v", err)
		}
		logger.Info("completion provider configured", "model", cfg.Model)
	} else {
		if cfg.Environment == "prod" {
			log.Fatalf("OPENAI_API_KEY is required in production")
		}
		provider = canned.NewProvider()
		logger.Warn("OPENAI_API_KEY not set, using canned completion provider")
	}

	// Payment client (optional: webhook replenishment works without it)
	var payments billing.PaymentClient
	if cfg.StripeSecretKey != "" {
		payments, err = billing.NewStripeClient(cfg.StripeSecretKey)
		if err != nil {
			log.Fatalf("Failed to create stripe client: %v", err)
		}
		logger.Info("payment client configured")
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment-intent creation disabled")
	}

	// Auth: JWKS verification when configured, trusted header mode otherwise
	var verifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
	} else {
		logger.Warn("JWKS_URL not set, trusting X-User-ID header (gateway-terminated auth)")
	}

	// Services
	chatService := chat.NewService(ledger, store, provider, cfg, logger)
	billingService := billing.NewService(plans, ledger, grants, txManager, payments, logger)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, logger)
	billingHandler := handler.NewBillingHandler(billingService, cfg.StripeWebhookSecret, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Chat routes
	mux.HandleFunc("POST /api/chat", chatHandler.Converse)
	mux.HandleFunc("GET /api/chat/history", chatHandler.History)
	mux.HandleFunc("GET /api/quota", chatHandler.Quota)

	// Billing routes
	mux.HandleFunc("GET /api/plans", billingHandler.Plans)
	mux.HandleFunc("POST /api/billing/intent", billingHandler.CreateIntent)
	mux.HandleFunc("POST /api/billing/webhook", billingHandler.Webhook)

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	var root http.Handler = mux

	// The webhook authenticates via Stripe signature, not a user token;
	// health stays unauthenticated for probes.
	root = middleware.SkipAuth(middleware.AuthMiddleware(verifier), map[string]bool{
		"/health":              true,
		"/api/plans":           true,
		"/api/billing/webhook": true,
	})(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server. WriteTimeout bounds the completion call: the
	// gate treats no-response-within-timeout as an upstream failure.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
