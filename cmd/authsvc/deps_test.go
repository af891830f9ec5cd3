package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cts/user-auth-service/internal/core/domain"
	"github.com/cts/user-auth-service/internal/core/ports"
	"github.com/cts/user-auth-service/internal/pkg/config"
)

func sqliteConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		BcryptCost:  4,
	}
	cfg.JWT = config.JWTConfig{Secret: "deps-test-secret-0123456789", Issuer: "user-auth-service", TTL: time.Hour}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "auth.db")
	cfg.Redis.Addr = redisAddr
	cfg.Limits = config.LimitsConfig{LoginAttempts: 2, Window: time.Minute}
	cfg.Audit.Workers = 2
	return cfg
}

func TestBuildApp_SQLiteWithLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	a, err := buildApp(ctx, sqliteConfig(t, mr.Addr()), zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.close(ctx)) }()

	assert.Contains(t, a.health, "sqlite")
	assert.Contains(t, a.health, "redis")
	for name, ping := range a.health {
		assert.NoError(t, ping(ctx), name)
	}

	_, err = a.service.Register(ctx, ports.RegisterInput{
		Email: "a@x.com", FirstName: "A", LastName: "B", Password: "Test@1234",
	})
	require.NoError(t, err)

	bad := ports.LoginInput{Email: "a@x.com", Password: "nope"}
	for i := 0; i < 2; i++ {
		_, err = a.service.Login(ctx, bad)
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	_, err = a.service.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "Test@1234"})
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestBuildApp_WithoutRedis(t *testing.T) {
	ctx := context.Background()

	a, err := buildApp(ctx, sqliteConfig(t, ""), zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.close(ctx)) }()

	assert.NotContains(t, a.health, "redis")

	_, err = a.service.Register(ctx, ports.RegisterInput{
		Email: "a@x.com", FirstName: "A", LastName: "B", Password: "Test@1234",
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = a.service.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "nope"})
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
}

func TestBuildApp_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := buildApp(context.Background(), sqliteConfig(t, addr), zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildServer_SeedsQuestions(t *testing.T) {
	cfg := sqliteConfig(t, "")
	cfg.SeedQuestions = true
	cfg.Port = "0"

	srv, cleanup, err := buildServer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, ":0", srv.Addr())
}
