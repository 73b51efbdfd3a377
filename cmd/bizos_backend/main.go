package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bizos_backend/internal/adapters/events"
	"github.com/SscSPs/bizos_backend/internal/adapters/llm"
	"github.com/SscSPs/bizos_backend/internal/adapters/probes"
	"github.com/SscSPs/bizos_backend/internal/adapters/session"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/core/services"
	"github.com/SscSPs/bizos_backend/internal/handlers"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/SscSPs/bizos_backend/internal/platform/config"
	"github.com/SscSPs/bizos_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/SscSPs/bizos_backend/internal/utils/crypto"
	"github.com/SscSPs/bizos_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title BizOS Backend API
// @version 1.0
// @description Finance, CRM, reports and business advisor API for small businesses.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the Supabase access token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sealer, err := newSealer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize credentials sealer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool, sealer)
	repos.SessionStore, err = newSessionStore(ctx, cfg, sealer, logger)
	if err != nil {
		logger.Error("Failed to initialize session store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	publisher := newPublisher(cfg, logger)
	if closer, ok := publisher.(interface{ Close() error }); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.Warn("Error closing event publisher", slog.String("error", cerr.Error()))
			}
		}()
	}

	openaiLLM := llm.NewOpenAICompleter(cfg.OpenAIBaseURL)
	geminiLLM := llm.NewGeminiCompleter("")
	svc := services.NewServiceContainer(cfg, repos, services.Gateways{
		Publisher: publisher,
		Completers: map[domain.IntegrationKind]ports.ChatCompleter{
			domain.KindOpenAI: openaiLLM,
			domain.KindGemini: geminiLLM,
		},
		Probers: []ports.ConnectionProber{
			probes.NewWhatsAppProber(cfg.WhatsAppGraphURL, cfg.ProbeTimeout),
			probes.NewEmailProber(),
			probes.NewOpenAIProber(openaiLLM, cfg.ProbeTimeout),
			probes.NewGeminiProber(geminiLLM, cfg.ProbeTimeout),
		},
	})

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	apiLimiter, err := newLimiter(cfg.RateLimitAPI)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT_API", slog.String("error", err.Error()))
		os.Exit(1)
	}
	costlyLimiter, err := newLimiter(cfg.RateLimitAdvisor)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT_ADVISOR", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"}

	r.Use(
		cors.New(corsConfig),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.GinMiddlewarize(apiLimiter),
		middleware.PosthogMiddleware(posthogClient),
	)

	handlers.RegisterRoutes(r, cfg, svc, costlyLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("balance_mode", string(cfg.BalanceMode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// runMigrations applies pending "up" migrations over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newSealer uses the configured key. Outside production a missing key gets a
// throwaway one, so stored integrations do not survive a restart.
func newSealer(cfg *config.Config, logger *slog.Logger) (*crypto.Sealer, error) {
	key := cfg.CredentialsKey
	if key == "" {
		logger.Warn("CREDENTIALS_KEY not set, using an ephemeral key")
		generated, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		key = generated
	}
	return crypto.NewSealer(key)
}

func newSessionStore(ctx context.Context, cfg *config.Config, sealer *crypto.Sealer, logger *slog.Logger) (portsrepo.SessionStore, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, advisor sessions are kept in memory")
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	logger.Info("Advisor sessions stored in Redis", slog.String("addr", cfg.RedisAddr))
	return session.NewRedisStore(client, sealer, cfg.SessionTTL), nil
}

// newPublisher connects to the broker when configured. A broker that cannot be
// reached at startup disables events rather than the API.
func newPublisher(cfg *config.Config, logger *slog.Logger) ports.EventPublisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker, transaction events disabled", slog.String("error", err.Error()))
		return events.NoopPublisher{}
	}
	return p
}

func newLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}
