package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends. Postgres holds users; Redis holds pending codes and bans.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Email delivery modes.
const (
	EmailDeliveryLog   = "log"
	EmailDeliveryKafka = "kafka"
)

const minJWTSecretLength = 32

// Config is the resolved runtime configuration.
// It merges file values and environment overrides over built-in defaults.
type Config struct {
	ServiceID string
	LogLevel  string

	HTTPPort int
	GRPCPort int

	CORSAllowedOrigins []string

	StoreBackend string
	DatabaseURL  string
	RedisURL     string
	MaxDBConns   int32

	JWTSecret         string
	AllowEphemeralJWT bool
	TokenTTL          time.Duration

	CookieName   string
	CookieDomain string
	CookieSecure bool

	ConsumeTwoFACodeOnSuccess bool
	BcryptCost                int

	EmailDelivery   string
	KafkaBrokers    []string
	KafkaEmailTopic string

	BanPruneInterval time.Duration
	MetricsEnabled   bool

	StartupRetryTimeout time.Duration
	ShutdownTimeout     time.Duration
}

// configFile mirrors the YAML schema of configs/default.yaml. Pointer fields
// distinguish "absent" from an explicit false or zero.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	HTTP struct {
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"http"`
	Storage struct {
		Backend     string `yaml:"backend"`
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
		MaxDBConns  int32  `yaml:"max_db_conns"`
	} `yaml:"storage"`
	Auth struct {
		TokenExpiryHours          int    `yaml:"token_expiry_hours"`
		AllowEphemeralJWT         *bool  `yaml:"allow_ephemeral_jwt"`
		CookieName                string `yaml:"cookie_name"`
		CookieDomain              string `yaml:"cookie_domain"`
		CookieSecure              *bool  `yaml:"cookie_secure"`
		ConsumeTwoFACodeOnSuccess *bool  `yaml:"consume_2fa_code_on_success"`
		BcryptRounds              int    `yaml:"bcrypt_rounds"`
	} `yaml:"auth"`
	Email struct {
		Delivery     string   `yaml:"delivery"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"email"`
	Workers struct {
		BanPruneIntervalSeconds int `yaml:"ban_prune_interval_seconds"`
	} `yaml:"workers"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

func defaultConfig() Config {
	return Config{
		ServiceID:                 "auth-service",
		LogLevel:                  "info",
		HTTPPort:                  8080,
		GRPCPort:                  9090,
		CORSAllowedOrigins:        []string{"http://localhost:8000"},
		StoreBackend:              BackendMemory,
		MaxDBConns:                20,
		AllowEphemeralJWT:         true,
		TokenTTL:                  24 * time.Hour,
		CookieName:                "jwt",
		CookieSecure:              true,
		ConsumeTwoFACodeOnSuccess: true,
		BcryptCost:                12,
		EmailDelivery:             EmailDeliveryLog,
		KafkaEmailTopic:           "auth.notifications.email",
		BanPruneInterval:          time.Minute,
		MetricsEnabled:            true,
		StartupRetryTimeout:       30 * time.Second,
		ShutdownTimeout:           10 * time.Second,
	}
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			var f configFile
			if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
				return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
			}
			applyFile(&cfg, f)
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	if f.Service.LogLevel != "" {
		cfg.LogLevel = f.Service.LogLevel
	}
	if len(f.HTTP.CORSAllowedOrigins) > 0 {
		cfg.CORSAllowedOrigins = f.HTTP.CORSAllowedOrigins
	}
	if f.Storage.Backend != "" {
		cfg.StoreBackend = f.Storage.Backend
	}
	if f.Storage.PostgresURL != "" {
		cfg.DatabaseURL = f.Storage.PostgresURL
	}
	if f.Storage.RedisURL != "" {
		cfg.RedisURL = f.Storage.RedisURL
	}
	if f.Storage.MaxDBConns > 0 {
		cfg.MaxDBConns = f.Storage.MaxDBConns
	}
	if f.Auth.TokenExpiryHours > 0 {
		cfg.TokenTTL = time.Duration(f.Auth.TokenExpiryHours) * time.Hour
	}
	if f.Auth.AllowEphemeralJWT != nil {
		cfg.AllowEphemeralJWT = *f.Auth.AllowEphemeralJWT
	}
	if f.Auth.CookieName != "" {
		cfg.CookieName = f.Auth.CookieName
	}
	if f.Auth.CookieDomain != "" {
		cfg.CookieDomain = f.Auth.CookieDomain
	}
	if f.Auth.CookieSecure != nil {
		cfg.CookieSecure = *f.Auth.CookieSecure
	}
	if f.Auth.ConsumeTwoFACodeOnSuccess != nil {
		cfg.ConsumeTwoFACodeOnSuccess = *f.Auth.ConsumeTwoFACodeOnSuccess
	}
	if f.Auth.BcryptRounds > 0 {
		cfg.BcryptCost = f.Auth.BcryptRounds
	}
	if f.Email.Delivery != "" {
		cfg.EmailDelivery = f.Email.Delivery
	}
	if len(f.Email.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Email.KafkaBrokers
	}
	if f.Email.KafkaTopic != "" {
		cfg.KafkaEmailTopic = f.Email.KafkaTopic
	}
	if f.Workers.BanPruneIntervalSeconds > 0 {
		cfg.BanPruneInterval = time.Duration(f.Workers.BanPruneIntervalSeconds) * time.Second
	}
	if f.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *f.Metrics.Enabled
	}
}

func applyEnv(cfg *Config) {
	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.CORSAllowedOrigins = envCSV("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)

	cfg.StoreBackend = envOrDefault("STORE_BACKEND", cfg.StoreBackend)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.AllowEphemeralJWT = envBool("JWT_ALLOW_EPHEMERAL", cfg.AllowEphemeralJWT)
	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour

	cfg.CookieName = envOrDefault("AUTH_COOKIE_NAME", cfg.CookieName)
	cfg.CookieDomain = envOrDefault("AUTH_COOKIE_DOMAIN", cfg.CookieDomain)
	cfg.CookieSecure = envBool("AUTH_COOKIE_SECURE", cfg.CookieSecure)

	cfg.ConsumeTwoFACodeOnSuccess = envBool("CONSUME_2FA_CODE_ON_SUCCESS", cfg.ConsumeTwoFACodeOnSuccess)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)

	cfg.EmailDelivery = envOrDefault("EMAIL_DELIVERY", cfg.EmailDelivery)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaEmailTopic = envOrDefault("KAFKA_EMAIL_TOPIC", cfg.KafkaEmailTopic)

	cfg.BanPruneInterval = time.Duration(envInt("BAN_PRUNE_INTERVAL_SECONDS", int(cfg.BanPruneInterval.Seconds()))) * time.Second
	cfg.MetricsEnabled = envBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.StartupRetryTimeout = time.Duration(envInt("STARTUP_RETRY_SECONDS", int(cfg.StartupRetryTimeout.Seconds()))) * time.Second
}

// normalize folds the enumerated settings so file and env values compare alike.
func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.EmailDelivery = strings.ToLower(strings.TrimSpace(c.EmailDelivery))
}

// Validate rejects combinations the runtime cannot start with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("missing REDIS_URL for store backend %q", c.StoreBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing DB_URL/POSTGRES_URL")
		}
		if c.RedisURL == "" {
			return fmt.Errorf("missing REDIS_URL for store backend %q", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.EmailDelivery {
	case EmailDeliveryLog:
	case EmailDeliveryKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("missing KAFKA_BROKERS for kafka email delivery")
		}
	default:
		return fmt.Errorf("unknown EMAIL_DELIVERY %q", c.EmailDelivery)
	}

	if c.JWTSecret == "" && !c.AllowEphemeralJWT {
		return fmt.Errorf("missing JWT_SECRET")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_HOURS must be positive")
	}
	if c.CookieName == "" {
		return fmt.Errorf("AUTH_COOKIE_NAME must not be empty")
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty or invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
