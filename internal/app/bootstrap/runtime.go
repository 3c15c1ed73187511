package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	cacheadapter "github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/cache"
	eventadapter "github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/events"
	grpcadapter "github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/grpc"
	httpadapter "github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/observability"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/postgres"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/workers"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcHealth *health.Server
	grpcLis    net.Listener
	pruner     *workers.BanPruner
	cleanupFn  func(context.Context)
}

// stores groups the backend-specific adapters selected by STORE_BACKEND.
type stores struct {
	users   ports.UserStore
	codes   ports.TwoFACodeStore
	banned  ports.BannedTokenStore
	checks  map[string]httpadapter.ReadinessCheck
	cleanup []func() error
}

func (s *stores) close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		_ = s.cleanup[i]()
	}
}

func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("bootstrapping authentication service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"store_backend", cfg.StoreBackend,
		"email_delivery", cfg.EmailDelivery,
	)

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	st, err := openStores(ctx, cfg, logger, hasher)
	if err != nil {
		return nil, err
	}

	tokenIssuer, err := newTokenIssuer(cfg, logger)
	if err != nil {
		st.close()
		return nil, err
	}

	emailClient, closeEmail, err := newEmailClient(cfg, logger)
	if err != nil {
		st.close()
		return nil, err
	}
	st.cleanup = append(st.cleanup, closeEmail)

	metrics := observability.NewMetrics()

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			AllowTwoFACodeReplay: !cfg.ConsumeTwoFACodeOnSuccess,
		},
		Users:        st.users,
		TwoFACodes:   st.codes,
		BannedTokens: st.banned,
		TokenIssuer:  tokenIssuer,
		EmailClient:  emailClient,
		Metrics:      metrics,
	})

	opts := httpadapter.RouterOptions{CORSAllowedOrigins: cfg.CORSAllowedOrigins}
	if cfg.MetricsEnabled {
		opts.Observer = metrics
		opts.MetricsHandler = metrics.Handler()
	}
	handler := httpadapter.NewHandler(svc, httpadapter.CookieConfig{
		Name:   cfg.CookieName,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
	}, st.checks)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(grpcServer, grpcadapter.NewAuthInternalServer(svc))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		st.close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	var pruner *workers.BanPruner
	if p, ok := st.banned.(ports.BannedTokenPruner); ok {
		pruner = workers.NewBanPruner(logger, p, metrics, cfg.BanPruneInterval)
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcHealth: healthSrv,
		grpcLis:    lis,
		pruner:     pruner,
		cleanupFn: func(context.Context) {
			st.close()
		},
	}, nil
}

func openStores(ctx context.Context, cfg Config, logger *slog.Logger, hasher ports.PasswordHasher) (*stores, error) {
	st := &stores{checks: map[string]httpadapter.ReadinessCheck{}}

	switch cfg.StoreBackend {
	case BackendMemory:
		st.users = memory.NewUserStore()
		st.codes = memory.NewTwoFACodeStore()
		st.banned = memory.NewBannedTokenStore()
		return st, nil
	case BackendPostgres:
		db, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		st.cleanup = append(st.cleanup, func() error { return postgres.Close(db) })
		if err := postgres.RunMigrations(ctx, db); err != nil {
			st.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		st.users = postgres.NewUserStore(db, hasher)
		st.checks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
	default:
		st.users = memory.NewUserStore()
	}

	client, err := connectRedis(ctx, cfg, logger)
	if err != nil {
		st.close()
		return nil, err
	}
	st.cleanup = append(st.cleanup, client.Close)
	st.codes = cacheadapter.NewRedisTwoFACodeStore(client)
	st.banned = cacheadapter.NewRedisBannedTokenStore(client)
	st.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return st, nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	err := withStartupRetry(ctx, cfg, logger, "postgres", func(ctx context.Context) error {
		conn, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return err
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func connectRedis(ctx context.Context, cfg Config, logger *slog.Logger) (*redis.Client, error) {
	var client *redis.Client
	err := withStartupRetry(ctx, cfg, logger, "redis", func(ctx context.Context) error {
		c, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// withStartupRetry retries a dependency connect with exponential backoff
// until StartupRetryTimeout elapses.
func withStartupRetry(ctx context.Context, cfg Config, logger *slog.Logger, dependency string, fn func(context.Context) error) error {
	backoff := retry.NewExponential(250 * time.Millisecond)
	backoff = retry.WithCappedDuration(5*time.Second, backoff)
	backoff = retry.WithMaxDuration(cfg.StartupRetryTimeout, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			logger.Warn("dependency not reachable yet",
				"dependency", dependency,
				"attempt", attempt,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func newTokenIssuer(cfg Config, logger *slog.Logger) (*security.JWTIssuer, error) {
	if cfg.JWTSecret != "" {
		issuer, err := security.NewJWTIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("init jwt issuer: %w", err)
		}
		return issuer, nil
	}
	logger.Warn("using ephemeral JWT secret for local/dev runtime")
	issuer, err := security.NewEphemeralJWTIssuer(cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init ephemeral jwt issuer: %w", err)
	}
	return issuer, nil
}

func newEmailClient(cfg Config, logger *slog.Logger) (ports.EmailClient, func() error, error) {
	if cfg.EmailDelivery == EmailDeliveryKafka {
		client, err := eventadapter.NewKafkaEmailClient(cfg.KafkaBrokers, cfg.KafkaEmailTopic)
		if err != nil {
			return nil, nil, fmt.Errorf("init kafka email client: %w", err)
		}
		return client, client.Close, nil
	}
	return eventadapter.NewLoggingEmailClient(logger), func() error { return nil }, nil
}

// RunAPI serves HTTP and gRPC until the context is cancelled or a signal
// arrives. The banned-token pruner runs alongside when the store needs it.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 3)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	pruneCtx, cancelPrune := context.WithCancel(ctx)
	pruneDone := make(chan struct{})
	go func() {
		defer close(pruneDone)
		if r.pruner == nil {
			return
		}
		r.logger.Info("banned token pruner started", "interval", r.cfg.BanPruneInterval.String())
		if err := r.pruner.Run(pruneCtx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("ban pruner: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	r.grpcHealth.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	cancelPrune()
	<-pruneDone
	r.cleanupFn(shutdownCtx)
	return runErr
}

// RunMigrations applies the embedded schema to DB_URL and exits.
func RunMigrations(ctx context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	logger := NewLogger(cfg.LogLevel)

	db, err := connectPostgres(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}
