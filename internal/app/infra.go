package app

import (
	"context"
	"errors"

	"oauth-backend/internal/config"
	"oauth-backend/internal/db"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/ratelimit"
	"oauth-backend/internal/redis"
	"oauth-backend/internal/session"

	"gorm.io/gorm"
)

type Infra struct {
	DB *gorm.DB
	// Redis is nil when REDIS_ADDR is not configured.
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	gdb, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: gdb}
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, sessions and rate limits stay in process memory", nil)
		return infra, nil
	}

	redisClient, err := redis.New(ctx, redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	infra.Redis = redisClient

	logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	return infra, nil
}

// sessionStore picks Redis when available.
func (i *Infra) sessionStore() session.Store {
	if i.Redis != nil {
		return session.NewRedisStore(i.Redis.Client)
	}
	return session.NewMemoryStore()
}

func (i *Infra) limiter(cfg config.Config) ratelimit.Limiter {
	if i.Redis != nil {
		return ratelimit.NewRedisLimiter(i.Redis.Client, cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	errs = append(errs, db.Close(i.DB))
	return errors.Join(errs...)
}
