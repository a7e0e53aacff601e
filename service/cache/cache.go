package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/service/cache/provider"
)

var (
	ErrNotFound = errors.New("cache miss")
)

// OneTimeGetter loads a value on a miss, e.g. a use case read against the ledger
type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service keeps serialized values under Pfx, with entries expiring after Ttl
type Service interface {
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl         time.Duration
	Pfx         string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
