package tracker

import (
	"time"

	"github.com/x-xyz/nftauction/base/backoff"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/goroutine"
	"github.com/x-xyz/nftauction/base/log"
)

// Supervise keeps a tracker built from cfg running until c is done. A tracker
// that stops with an error or a panic is rebuilt after the backoff, which
// resets once a run outlives its limit. The returned channel closes on exit.
func Supervise(c ctx.Ctx, cfg *EventTrackerCfg, b *backoff.Backoff, limit time.Duration) <-chan struct{} {
	done := make(chan struct{})
	errCh := make(chan error, 1)
	trackerCfg := *cfg
	trackerCfg.ErrorCh = errCh
	logger := c.WithFields(log.Fields{"contract": cfg.ContractAddress, "tag": cfg.TrackerTag})

	go func() {
		defer close(done)
		for {
			started := time.Now()
			ev := <-goroutine.RecoverableGo(func() {
				t, err := NewEventTracker(&trackerCfg)
				if err != nil {
					errCh <- err
					return
				}
				t.Start(c)
				t.Wait()
			}, goroutine.WithName("tracker"))
			if ev != nil {
				logger.WithField("panic", ev.Panic).Error("tracker panicked")
			}

			select {
			case err := <-errCh:
				logger.WithField("err", err).Error("tracker stopped")
			default:
			}
			if c.Err() != nil {
				return
			}

			if time.Since(started) > limit {
				b.Reset()
			}
			logger.WithField("after", b.NextDuration).Info("restarting tracker")
			if err := b.Backoff(c); err != nil {
				return
			}
		}
	}()
	return done
}
