package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authone/authone/internal/handlers"
	"github.com/authone/authone/internal/infrastructure/config"
	"github.com/authone/authone/internal/infrastructure/database"
	"github.com/authone/authone/internal/infrastructure/logging"
	"github.com/authone/authone/internal/infrastructure/metrics"
	"github.com/authone/authone/internal/repositories/postgres"
	"github.com/authone/authone/internal/services"
	"github.com/authone/authone/internal/services/authorization"
	"github.com/authone/authone/pkg/cache"
	"github.com/authone/authone/pkg/cache/memorycache"
	"github.com/authone/authone/pkg/cache/rediscache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultEnv = "dev"

func main() {
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	logger, err := logging.NewLogger(env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := config.InitConfig(env); err != nil {
		logger.Fatal("failed to initialize config", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pg.Close()

	logger.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database),
	)

	// Repositories
	permissionRepo := postgres.NewPostgresPermissionRepository(pg.DB)
	roleRepo := postgres.NewPostgresRoleRepository(pg.DB)
	groupRepo := postgres.NewPostgresGroupRepository(pg.DB)
	accountRepo := postgres.NewPostgresAccountRepository(pg.DB)
	resourceRepo := postgres.NewPostgresResourceRepository(pg.DB)
	auditRepo := postgres.NewPostgresAuditRepository(pg.DB)
	policyRepo := postgres.NewPostgresPolicyRepository(pg.DB)

	// Policy store and enforcement
	store := authorization.NewStore(policyRepo, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Load(loadCtx); err != nil {
		cancelLoad()
		logger.Fatal("failed to load policy rules", zap.Error(err))
	}
	cancelLoad()

	matcher := authorization.NewMatcher(cfg.Matcher.TypePatterns, cfg.Matcher.RegexEnabled)

	checkCache, err := buildCache(&cfg.Cache)
	if err != nil {
		logger.Fatal("failed to create check cache", zap.Error(err))
	}

	var enforcer authorization.EnforcerInterface
	if checkCache != nil {
		defer checkCache.Close()
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		enforcer = authorization.NewEnforcerWithCache(store, matcher, checkCache, ttl)
		logger.Info("check cache enabled",
			zap.String("backend", cfg.Cache.Backend),
			zap.Duration("ttl", ttl),
		)
	} else {
		enforcer = authorization.NewEnforcer(store, matcher)
	}

	svc := services.NewAuthService(
		permissionRepo, roleRepo, groupRepo, accountRepo, resourceRepo, auditRepo,
		store, matcher, enforcer, logger,
	)

	// Metrics
	collector := metrics.NewCollector()
	if checkCache != nil {
		collector.SetCache(checkCache)
	}
	exporter := metrics.NewPrometheusExporter(collector)
	svc.SetDecisionRecorder(exporter)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}
	go func() {
		logger.Info("metrics server listening", zap.Int("port", cfg.Server.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	// Refresh gauge metrics periodically.
	gaugeTicker := time.NewTicker(10 * time.Second)
	defer gaugeTicker.Stop()
	go func() {
		for range gaugeTicker.C {
			exporter.Update()
		}
	}()

	// API server
	handler := handlers.NewHandler(svc, logger)
	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Routes(metrics.Middleware(collector, exporter)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
		)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-sigChan:
		logger.Info("initiating graceful shutdown", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", zap.Error(err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
		}
		if err := pg.Close(); err != nil {
			logger.Error("database close error", zap.Error(err))
		}

		logger.Info("shutdown complete")
	}
}

// buildCache constructs the configured check cache, or nil when disabled.
func buildCache(cfg *config.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		return rediscache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "")
	case "", "memory":
		return memorycache.New(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
