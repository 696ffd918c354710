package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/api"
	"github.com/mim3/sales-dashboard/internal/api/metrics"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
	"github.com/mim3/sales-dashboard/internal/core/service"
	"github.com/mim3/sales-dashboard/internal/infrastructure/config"
	mongostore "github.com/mim3/sales-dashboard/internal/infrastructure/db/mongo"
	redisinfra "github.com/mim3/sales-dashboard/internal/infrastructure/db/redis"
	sqlitestore "github.com/mim3/sales-dashboard/internal/infrastructure/db/sqlite"
	"github.com/mim3/sales-dashboard/internal/infrastructure/hash"
	"github.com/mim3/sales-dashboard/internal/infrastructure/queue"
	sessioninfra "github.com/mim3/sales-dashboard/internal/infrastructure/session"
	"github.com/mim3/sales-dashboard/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required to sign session records")
	}

	// --- User store ---
	users, closeStore, err := buildUserStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("user store init failed")
	}
	defer closeStore()

	// --- Session medium ---
	codec := sessioninfra.NewCodec(cfg.JWTSecret)
	medium, rdb, err := buildSessionMedium(ctx, cfg, codec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("session medium init failed")
	}

	// --- Audit trail ---
	var sink ports.AuditSink = queue.NewLogSink(log)
	var auditLog ports.AuditLog
	if rdb != nil {
		redisSink := redisinfra.NewAuditSink(rdb)
		sink = redisSink
		auditLog = redisSink
	}
	dispatcher := queue.NewDispatcher(0, sink, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	hasher := hash.NewBcryptHasher(0)
	sessions := service.NewSessionStore(medium, users, cfg.Session.CacheTTL, dispatcher, log)
	auth := service.NewAuthService(users, hasher, log)
	userService := service.NewUserService(users, hasher, log)

	// --- Access policy + guard ---
	registry := service.NewPolicyRegistry(log)
	api.RegisterPolicies(registry)
	guard := service.NewGuard(sessions, registry, dispatcher, log)

	// --- Bootstrap: the system must not start without an admin ---
	bootstrap := service.NewBootstrap(users, hasher, log)
	admin, err := bootstrap.EnsureAdminExists(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	log.Info().Str("username", admin.Username).Msg("admin identity verified")
	_ = dispatcher.Record(ctx, domain.AuditEvent{Kind: domain.AuditBootstrap, Username: admin.Username})

	// --- Restore a previous session, if any ---
	sessions.Init(ctx)
	if identity := sessions.CurrentIdentity(); identity != nil {
		metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
		metrics.SessionActive.Set(1)
		log.Info().Str("username", identity.Username).Msg("previous session restored")
	} else {
		metrics.SessionRestoresTotal.WithLabelValues("anonymous").Inc()
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auth:     auth,
		Sessions: sessions,
		Guard:    guard,
		Users:    userService,
		Store:    users,
		Registry: registry,
		Audit:    dispatcher,
		AuditLog: auditLog,
		Redis:    rdb,
	})
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Str("session_medium", cfg.Session.Medium).Msg("dashboard started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildUserStore selects the identity backend: the default single-file SQLite
// table, or MongoDB for deployments that already run it.
func buildUserStore(ctx context.Context, cfg *config.Config) (ports.UserStore, func(), error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewUserStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		if path := cfg.Store.SQLitePath; path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, nil, err
			}
		}
		db, err := sqlitestore.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlitestore.NewUserStore(db), func() { _ = db.Close() }, nil
	}
}

// buildSessionMedium selects where the durable session record lives. The
// redis client is returned so health checks and the audit sink can share it.
func buildSessionMedium(ctx context.Context, cfg *config.Config, codec *sessioninfra.Codec, log zerolog.Logger) (ports.SessionMedium, *redis.Client, error) {
	switch cfg.Session.Medium {
	case "redis":
		rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisinfra.NewSessionMedium(rdb, codec, log), rdb, nil
	default:
		return sessioninfra.NewFileMedium(cfg.Session.FilePath, codec, log), nil, nil
	}
}
