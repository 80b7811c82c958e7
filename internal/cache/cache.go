// Package cache abstrae un key/value con TTL, con backend in-process
// (go-cache) o Redis.
//
// Se usa para el state de OAuth (return_url por login social, de un solo uso).
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl 0 = sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Take obtiene y borra la key de forma atómica (valores de un solo uso).
	Take(ctx context.Context, key string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config para crear un cliente.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string
}

var ErrNotFound = errors.New("cache: key not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New crea un cliente según cfg.Driver. Driver vacío = memory.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return DialRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	}
	return nil, errors.New("cache: unknown driver " + cfg.Driver)
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
