package cache

import (
	"github.com/x-xyz/nftauction/base/ctx"
)

type layered struct {
	layers []Service
}

// NewLayered reads layers in order and back fills the faster layers on a hit
func NewLayered(layers ...Service) Service {
	return &layered{
		layers: layers,
	}
}

func (l *layered) GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error {
	return getByFunc(c, l, key, container, getter)
}

func (l *layered) Get(c ctx.Ctx, key string, container interface{}) error {
	hit := -1
	for i, lyr := range l.layers {
		err := lyr.Get(c, key, container)
		if err == ErrNotFound {
			continue
		} else if err != nil {
			return err
		}
		hit = i
		break
	}
	if hit == -1 {
		return ErrNotFound
	}

	for i := 0; i < hit; i++ {
		if err := l.layers[i].Set(c, key, container); err != nil {
			return err
		}
	}
	return nil
}

func (l *layered) Set(c ctx.Ctx, key string, value interface{}) error {
	for _, lyr := range l.layers {
		if err := lyr.Set(c, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (l *layered) Del(c ctx.Ctx, key string) error {
	for _, lyr := range l.layers {
		if err := lyr.Del(c, key); err != nil {
			return err
		}
	}
	return nil
}
