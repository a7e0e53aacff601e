package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2
	// retTTLNoExpire is the return value of TTL when the key has no expire
	retTTLNoExpire = -1
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a redigo pool, name tags the metrics
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) connDo(c ctx.Ctx, command string, args ...interface{}) (interface{}, error) {
	defer r.met.BumpTime("do.time", "cluster", r.name, "command", command).End()

	conn, err := r.pool.GetContext(c)
	if err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name)
		return nil, err
	}
	defer conn.Close()

	reply, err := conn.Do(command, args...)
	if err != nil && err != redis.ErrNil {
		r.met.BumpSum("do.err", 1, "cluster", r.name, "command", command)
		c.WithFields(log.Fields{"err": err, "command": command, "cluster": r.name}).Error("conn.Do failed")
	}
	return reply, err
}

func (r *redImpl) Get(c ctx.Ctx, key string) ([]byte, error) {
	v, err := redis.Bytes(r.connDo(c, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *redImpl) Set(c ctx.Ctx, key string, val []byte, ttl time.Duration) error {
	args := []interface{}{key, val}
	if ttl > 0 {
		args = append(args, "PX", ttl.Milliseconds())
	}
	_, err := r.connDo(c, "SET", args...)
	return err
}

func (r *redImpl) Del(c ctx.Ctx, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return redis.Int(r.connDo(c, "DEL", args...))
}

// TTL returns zero for keys without expire
func (r *redImpl) TTL(c ctx.Ctx, key string) (time.Duration, error) {
	ms, err := redis.Int64(r.connDo(c, "PTTL", key))
	if err != nil {
		return 0, err
	}
	switch ms {
	case retTTLNoKey:
		return 0, ErrNotFound
	case retTTLNoExpire:
		return 0, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (r *redImpl) Ping(c ctx.Ctx) error {
	_, err := r.connDo(c, "PING")
	return err
}
