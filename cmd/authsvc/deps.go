package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cts/user-auth-service/internal/api/handler"
	"github.com/cts/user-auth-service/internal/core/ports"
	"github.com/cts/user-auth-service/internal/core/service"
	mongostore "github.com/cts/user-auth-service/internal/infrastructure/db/mongo"
	redisstore "github.com/cts/user-auth-service/internal/infrastructure/db/redis"
	"github.com/cts/user-auth-service/internal/infrastructure/db/sqlite"
	"github.com/cts/user-auth-service/internal/infrastructure/queue"
	"github.com/cts/user-auth-service/internal/infrastructure/security"
	"github.com/cts/user-auth-service/internal/pkg/config"
	"github.com/cts/user-auth-service/pkg/logger"
)

// stores bundles the repositories of one credential store backend.
type stores struct {
	users     ports.UserRepository
	questions ports.SecretQuestionRepository
	audit     ports.AuditRepository
	ping      handler.Pinger
	close     func(ctx context.Context) error
}

// app is the fully wired service shared by the serve and seed commands.
type app struct {
	service *service.AuthService
	tokens  *security.JWTManager
	health  map[string]handler.Pinger

	dispatcher  *queue.AuditDispatcher
	stopWorkers context.CancelFunc
	closers     []func(ctx context.Context) error
}

// storeOpener is swapped in tests.
var storeOpener = openStores

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store opened")
		return &stores{
			users:     sqlite.NewUserRepository(db),
			questions: sqlite.NewQuestionRepository(db),
			audit:     sqlite.NewAuditRepository(db),
			ping:      func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
			close:     func(context.Context) error { return sqlite.Close(db) },
		}, nil

	case config.StoreMongo:
		ms, err := mongostore.Open(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store connected")
		return &stores{
			users:     ms.Users,
			questions: ms.Questions,
			audit:     ms.Audit,
			ping:      ms.Ping,
			close:     ms.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	st, err := storeOpener(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{
		tokens:  security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		health:  map[string]handler.Pinger{cfg.StoreDriver: st.ping},
		closers: []func(context.Context) error{st.close},
	}

	var opts []service.Option
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			_ = a.close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.health["redis"] = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
		opts = append(opts, service.WithAttemptLimiter(
			redisstore.NewAttemptLimiter(rdb, cfg.Limits.LoginAttempts, cfg.Limits.Window),
		))
	} else {
		log.Warn().Msg("REDIS_ADDR empty, attempt limiting disabled")
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	a.dispatcher = queue.NewAuditDispatcher(cfg.Audit.Workers, st.audit, logger.Component(log, "audit"))
	a.dispatcher.Start(workerCtx)
	a.stopWorkers = cancel
	opts = append(opts, service.WithAuditRecorder(a.dispatcher))

	a.service = service.NewAuthService(
		st.users,
		st.questions,
		security.NewBcryptHasher(cfg.BcryptCost),
		a.tokens,
		logger.Component(log, "auth"),
		opts...,
	)
	return a, nil
}

// close flushes the audit workers, then releases connections in reverse order.
func (a *app) close(ctx context.Context) error {
	if a.stopWorkers != nil {
		a.stopWorkers()
		a.dispatcher.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
