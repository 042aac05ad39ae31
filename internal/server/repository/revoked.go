package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokensRepository хранит отозванные access-токены (по jti) в Redis.
//
// Ключ живёт ровно столько, сколько оставалось жить токену,
// после этого токен и так не пройдёт проверку exp.
type RevokedTokensRepository struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRevokedTokensRepository создаёт репозиторий поверх готового клиента Redis.
func NewRevokedTokensRepository(rdb redis.UniversalClient, prefix string) *RevokedTokensRepository {
	return &RevokedTokensRepository{rdb: rdb, prefix: prefix}
}

// Revoke помечает jti как отозванный на время ttl.
// Неположительный ttl означает, что токен уже истёк, и запись не нужна.
func (r *RevokedTokensRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err(); err != nil {
		return dbErr("revoke token", err)
	}
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (r *RevokedTokensRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.prefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, dbErr("check revoked token", err)
	}
}

// Ping проверяет доступность Redis.
func (r *RevokedTokensRepository) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return dbErr("ping redis", err)
	}
	return nil
}
