package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"SERVICE_ID", "LOG_LEVEL", "HTTP_PORT", "GRPC_PORT", "CORS_ALLOWED_ORIGINS",
	"STORE_BACKEND", "DB_URL", "POSTGRES_URL", "REDIS_URL", "DB_MAX_CONNS",
	"JWT_SECRET", "JWT_ALLOW_EPHEMERAL", "TOKEN_EXPIRY_HOURS",
	"AUTH_COOKIE_NAME", "AUTH_COOKIE_DOMAIN", "AUTH_COOKIE_SECURE",
	"CONSUME_2FA_CODE_ON_SUCCESS", "BCRYPT_ROUNDS",
	"EMAIL_DELIVERY", "KAFKA_BROKERS", "KAFKA_EMAIL_TOPIC",
	"BAN_PRUNE_INTERVAL_SECONDS", "METRICS_ENABLED", "STARTUP_RETRY_SECONDS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "jwt", cfg.CookieName)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.AllowEphemeralJWT)
	assert.True(t, cfg.ConsumeTwoFACodeOnSuccess)
	assert.Equal(t, EmailDeliveryLog, cfg.EmailDelivery)
	assert.Equal(t, time.Minute, cfg.BanPruneInterval)
	assert.Equal(t, []string{"http://localhost:8000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigMissingFileIsIgnored(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, `
service:
  http_port: 8181
storage:
  backend: redis
  redis_url: redis://file:6379/0
auth:
  token_expiry_hours: 2
  cookie_secure: false
  consume_2fa_code_on_success: false
email:
  delivery: kafka
  kafka_brokers: [kafka-1:9092]
workers:
  ban_prune_interval_seconds: 15
`)
	t.Setenv("REDIS_URL", "redis://env:6379/0")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.HTTPPort)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "redis://env:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.ConsumeTwoFACodeOnSuccess)
	assert.Equal(t, EmailDeliveryKafka, cfg.EmailDelivery)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Second, cfg.BanPruneInterval)
}

func TestLoadConfigNormalizesEnumeratedValues(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, `
service:
  log_level: " DEBUG "
storage:
  backend: Memory
email:
  delivery: " LOG"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, EmailDeliveryLog, cfg.EmailDelivery)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Setenv("STORE_BACKEND", " MEMORY ")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, `
http:
  cors_allowed_origins: [https://app.example.com]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "service: [unterminated")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadConfigInvalidEnvFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("AUTH_COOKIE_SECURE", "maybe")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.True(t, cfg.CookieSecure)
}

func TestConfigValidate(t *testing.T) {
	validSecret := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "mongo" },
			wantErr: "unknown STORE_BACKEND",
		},
		{
			name:    "redis backend without url",
			mutate:  func(c *Config) { c.StoreBackend = BackendRedis },
			wantErr: "missing REDIS_URL",
		},
		{
			name: "postgres backend without database url",
			mutate: func(c *Config) {
				c.StoreBackend = BackendPostgres
				c.RedisURL = "localhost:6379"
			},
			wantErr: "missing DB_URL",
		},
		{
			name: "postgres backend without redis url",
			mutate: func(c *Config) {
				c.StoreBackend = BackendPostgres
				c.DatabaseURL = "postgres://localhost/auth"
			},
			wantErr: "missing REDIS_URL",
		},
		{
			name:    "kafka delivery without brokers",
			mutate:  func(c *Config) { c.EmailDelivery = EmailDeliveryKafka },
			wantErr: "missing KAFKA_BROKERS",
		},
		{
			name:    "unknown email delivery",
			mutate:  func(c *Config) { c.EmailDelivery = "smtp" },
			wantErr: "unknown EMAIL_DELIVERY",
		},
		{
			name:    "missing secret without ephemeral fallback",
			mutate:  func(c *Config) { c.AllowEphemeralJWT = false },
			wantErr: "missing JWT_SECRET",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "at least 32 bytes",
		},
		{
			name: "long secret without ephemeral fallback",
			mutate: func(c *Config) {
				c.JWTSecret = validSecret
				c.AllowEphemeralJWT = false
			},
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.TokenTTL = 0 },
			wantErr: "TOKEN_EXPIRY_HOURS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	assert.True(t, NewLogger("debug").Handler().Enabled(t.Context(), -4))
	assert.False(t, NewLogger("warn").Handler().Enabled(t.Context(), 0))
	assert.True(t, NewLogger("bogus").Handler().Enabled(t.Context(), 0))
}
