package goroutine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	ev := <-RecoverableGo(
		func() {
			res = append(res, "run task")
			panic("panic")
		},
		WithName("task"),
		WithBeforeStart(func() {
			res = append(res, "before start")
		}),
		WithAfterEnded(func() {
			res = append(res, "after ended")
		}),
		WithAfterRecovered(func(p interface{}, stack []byte) {
			res = append(res, "after recovered")
			res = append(res, p.(string))
		}),
	)

	assert.Equal(t, []string{
		"before start",
		"run task",
		"after ended",
		"after recovered",
		"panic",
	}, res)
	assert.Equal(t, "panic", ev.Panic)
	assert.NotEmpty(t, ev.Stack)
}

func TestRecoverableGoReturns(t *testing.T) {
	done := false
	ev, ok := <-RecoverableGo(func() { done = true })
	assert.True(t, done)
	assert.False(t, ok)
	assert.Nil(t, ev)
}
