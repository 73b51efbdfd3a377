package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BalanceMode selects how account balances follow transaction mutations.
type BalanceMode string

const (
	// BalanceRecompute refolds every transaction of each affected account.
	BalanceRecompute BalanceMode = "recompute"
	// BalanceIncremental applies the per-account delta of the mutation.
	BalanceIncremental BalanceMode = "incremental"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	DatabaseURL    string
	DBMaxConns     int32
	MigrationsPath string

	// JWTSecret is the Supabase project's JWT secret; tokens are issued by Supabase.
	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	AMQPURL      string
	AMQPExchange string

	OpenAIBaseURL    string
	WhatsAppGraphURL string
	LLMTimeout       time.Duration
	ProbeTimeout     time.Duration

	CredentialsKey string
	BalanceMode    BalanceMode

	RateLimitAPI     string // ulule formatted, e.g. "300-M"
	RateLimitAdvisor string

	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "bizos.events")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1/")
	v.SetDefault("WHATSAPP_GRAPH_URL", "https://graph.facebook.com/v18.0")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("PROBE_TIMEOUT", "10s")
	v.SetDefault("CREDENTIALS_KEY", "")
	v.SetDefault("BALANCE_MODE", string(BalanceRecompute))
	v.SetDefault("RATE_LIMIT_API", "300-M")
	v.SetDefault("RATE_LIMIT_ADVISOR", "20-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		DatabaseURL:      v.GetString("PGSQL_URL"),
		DBMaxConns:       v.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:   v.GetString("MIGRATIONS_PATH"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPExchange:     v.GetString("AMQP_EXCHANGE"),
		OpenAIBaseURL:    v.GetString("OPENAI_BASE_URL"),
		WhatsAppGraphURL: strings.TrimRight(v.GetString("WHATSAPP_GRAPH_URL"), "/"),
		CredentialsKey:   v.GetString("CREDENTIALS_KEY"),
		BalanceMode:      BalanceMode(strings.ToLower(v.GetString("BALANCE_MODE"))),
		RateLimitAPI:     v.GetString("RATE_LIMIT_API"),
		RateLimitAdvisor: v.GetString("RATE_LIMIT_ADVISOR"),
		PosthogAPIKey:    v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:  v.GetString("POSTHOG_ENDPOINT"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.SessionTTL, err = parseDuration(v, "SESSION_TTL"); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = parseDuration(v, "LLM_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = parseDuration(v, "PROBE_TIMEOUT"); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.BalanceMode != BalanceRecompute && cfg.BalanceMode != BalanceIncremental {
		return nil, fmt.Errorf("invalid BALANCE_MODE %q: must be %q or %q", cfg.BalanceMode, BalanceRecompute, BalanceIncremental)
	}

	if cfg.IsProduction {
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		if cfg.CredentialsKey == "" {
			return nil, errors.New("CREDENTIALS_KEY is required in production")
		}
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PGSQL_URL is required in production")
		}
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
