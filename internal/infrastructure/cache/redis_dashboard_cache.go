// Package cache implementa la caché del tablero sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/dto"
)

var _ analytics.DashboardCache = (*RedisDashboardCache)(nil)

// RedisDashboardCache guarda el resumen serializado en JSON con expiración.
type RedisDashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDashboardCache construye la caché. ttl <= 0 deja las claves sin expiración.
func NewRedisDashboardCache(rdb *redis.Client, ttl time.Duration) *RedisDashboardCache {
	return &RedisDashboardCache{rdb: rdb, ttl: ttl}
}

// Connect crea el cliente y verifica la conexión con un PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// GetSummary devuelve (nil, nil) si la clave no existe.
func (c *RedisDashboardCache) GetSummary(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return &out, nil
}

// SetSummary guarda el resumen en JSON con el ttl de la caché.
func (c *RedisDashboardCache) SetSummary(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeleteSummary borra la clave; borrar una clave inexistente no es error.
func (c *RedisDashboardCache) DeleteSummary(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
