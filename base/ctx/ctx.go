// Package ctx carries a logger alongside the context, so request ids and
// auction fields follow every log line of a call.
package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/nftauction/base/log"
)

const keyRequestID = "requestID"

type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

// From wraps a plain context, keeping the logger if it is already a Ctx
func From(c context.Context) Ctx {
	if cc, ok := c.(Ctx); ok {
		return cc
	}
	return Ctx{
		Context: c,
		Logger:  log.Log(),
	}
}

// WithValue also adds the pair to the logger fields
func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent, key, val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

func WithRequestID(parent Ctx, id string) Ctx {
	return WithValue(parent, keyRequestID, id)
}

// RequestID returns the id set by WithRequestID or an empty string
func RequestID(c Ctx) string {
	id, _ := c.Value(keyRequestID).(string)
	return id
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}
