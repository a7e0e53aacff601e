package cache

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain/keys"
	"github.com/x-xyz/nftauction/service/cache/provider"
)

type impl struct {
	ttl         time.Duration
	pfx         string
	cache       provider.Provider
	serialize   Serializer
	deserialize Deserializer
}

func New(config ServiceConfig) Service {
	if config.Serialize == nil {
		config.Serialize = json.Marshal
	}
	if config.Deserialize == nil {
		config.Deserialize = json.Unmarshal
	}
	return &impl{
		ttl:         config.Ttl,
		pfx:         config.Pfx,
		cache:       config.Cache,
		serialize:   config.Serialize,
		deserialize: config.Deserialize,
	}
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error {
	return getByFunc(c, im, key, container, getter)
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, _, err := im.cache.Get(c, key)
	if err == provider.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return err
	}
	if err := im.deserialize(val, container); err != nil {
		c.WithField("err", err).WithField("key", key).Error("deserialize failed")
		return err
	}
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, err := im.serialize(value)
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("serialize failed")
		return err
	}
	if err := im.cache.Set(c, key, val, im.ttl); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	key = keys.RedisKey(im.pfx, key)

	if err := im.cache.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Del failed")
		return err
	}
	return nil
}

// getByFunc fills the cache from getter on a miss, getter must return a pointer
func getByFunc(c ctx.Ctx, s Service, key string, container interface{}, getter OneTimeGetter) error {
	err := s.Get(c, key, container)
	if err == nil {
		return nil
	} else if err != ErrNotFound {
		return err
	}

	val, err := getter()
	if err != nil {
		return err
	}
	if err := s.Set(c, key, val); err != nil {
		c.WithField("err", err).WithField("key", key).Warn("Set failed")
	}
	reflect.ValueOf(container).Elem().Set(reflect.ValueOf(val).Elem())
	return nil
}
