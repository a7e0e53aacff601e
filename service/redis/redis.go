package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
)

// Service is the subset of redis commands the api needs
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, ttl time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	TTL(c ctx.Ctx, key string) (time.Duration, error)
	Ping(c ctx.Ctx) error
}
