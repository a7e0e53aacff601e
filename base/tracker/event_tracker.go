package tracker

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
)

var metOnce sync.Once
var met metrics.Service

type EventHandler interface {
	GetFilterTopics() [][]common.Hash
	ProcessEvents(ctx.Ctx, []logWithBlockTime) error
}

const (
	Version            = 1
	CaughtUpBlock      = 5
	TooManyLogsTimeout = 30 * time.Second

	defaultPollInterval = 10 * time.Second
	eventBatchSize      = 5
)

type EventTrackerCfg struct {
	ChainId             domain.ChainId
	Client              domain.ChainReader
	TrackerStateUseCase domain.TrackerStateUseCase
	ContractAddress     common.Address
	EventHandl          EventHandler
	ErrorCh             chan<- error
	TrackerTag          string
	FollowDistance      uint64
	PollInterval        time.Duration
}

// EventTracker follows the logs of one contract. Logs are handed to the
// handler in batches, the resume point is stored after every batch.
type EventTracker struct {
	chainId             domain.ChainId
	client              domain.ChainReader
	trackerStateUseCase domain.TrackerStateUseCase
	contractAddress     common.Address
	eventHandler        EventHandler
	errorCh             chan<- error
	filter              ethereum.FilterQuery
	trackerState        *domain.TrackerState
	trackerTag          string
	followDistance      uint64
	pollInterval        time.Duration
	stoppedCh           chan interface{}
}

func NewEventTracker(cfg *EventTrackerCfg) (*EventTracker, error) {
	metOnce.Do(func() {
		met = metrics.New("tracker")
	})
	if cfg.ContractAddress == (common.Address{}) {
		return nil, errors.New("config error: contract address is required")
	}
	tag := cfg.TrackerTag
	if tag == "" {
		tag = domain.DefaultTag
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &EventTracker{
		chainId:             cfg.ChainId,
		client:              cfg.Client,
		trackerStateUseCase: cfg.TrackerStateUseCase,
		contractAddress:     cfg.ContractAddress,
		eventHandler:        cfg.EventHandl,
		errorCh:             cfg.ErrorCh,
		filter: ethereum.FilterQuery{
			Addresses: []common.Address{cfg.ContractAddress},
			Topics:    cfg.EventHandl.GetFilterTopics(),
		},
		trackerTag:     tag,
		followDistance: cfg.FollowDistance,
		pollInterval:   interval,
		stoppedCh:      make(chan interface{}),
	}, nil
}

func (f *EventTracker) Start(c ctx.Ctx) {
	go func() {
		defer close(f.stoppedCh)
		if err := f.loop(c); err != nil && f.errorCh != nil {
			f.errorCh <- err
		}
	}()
}

func (f *EventTracker) Wait() {
	<-f.stoppedCh
}

// confirmed is the latest block considered final, false while the chain is
// shorter than the follow distance
func (f *EventTracker) confirmed(c ctx.Ctx) (uint64, bool, error) {
	current, err := f.client.BlockNumber(c)
	if err != nil {
		c.WithField("err", err).Error("client.BlockNumber failed")
		return 0, false, err
	}
	met.BumpAvg("blockchain.lastBlock", float64(current), "chainId", fmt.Sprint(f.chainId))
	if current < f.followDistance {
		return 0, false, nil
	}
	return current - f.followDistance, true, nil
}

func (f *EventTracker) loop(c ctx.Ctx) error {
	state, err := f.setupTrackerState(c)
	if err != nil {
		c.WithField("err", err).Error("setupTrackerState failed")
		return err
	}
	f.trackerState = state

	if err := f.fastFetch(c); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"chainId":  f.chainId,
			"contract": f.contractAddress,
		}).Error("fastFetch failed")
		return err
	}

	ch := make(chan types.Log, 1024)
	// subscriptions take no block range
	sub, err := f.client.SubscribeFilterLogs(c, ethereum.FilterQuery{
		Addresses: f.filter.Addresses,
		Topics:    f.filter.Topics,
	}, ch)
	if err != nil {
		c.WithField("err", err).Error("client.SubscribeFilterLogs failed")
		return err
	}
	defer sub.Unsubscribe()
	c.WithField("contract", f.contractAddress).Info("subscription")

	// dummy pending so logs between the last processed block and now are not missed
	current, err := f.client.BlockNumber(c)
	if err != nil {
		return err
	}
	lastPending := current
	pending := []uint64{current}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return nil
		case err := <-sub.Err():
			if err == nil {
				// subscription closed by the node
				return nil
			}
			c.WithField("err", err).Error("sub.Err()")
			return err
		case l := <-ch:
			if l.BlockNumber < lastPending {
				c.WithFields(log.Fields{
					"contract":         f.contractAddress,
					"log_block_number": l.BlockNumber,
					"last_pending":     lastPending,
				}).Warn("received old logs")
			}
			if l.BlockNumber > lastPending {
				lastPending = l.BlockNumber
				pending = append(pending, l.BlockNumber)
			}
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			target, ok, err := f.confirmed(c)
			if err != nil {
				return err
			}
			if !ok || pending[0] > target {
				continue
			}

			start := f.trackerState.LastBlockProcessed
			if target >= start {
				if err := f.processBlkRange(c, newBlockRange(start, target)); err != nil {
					c.WithField("err", err).Error("f.processBlkRange failed")
					return err
				}
				met.BumpAvg("auction.lastBlock", float64(f.trackerState.LastBlockProcessed), "chainId", fmt.Sprint(f.chainId))
			}

			i := 0
			for _, p := range pending {
				if p > target {
					break
				}
				i++
			}
			pending = pending[i:]
		}
	}
}

func (f *EventTracker) fastFetch(c ctx.Ctx) error {
	start := f.trackerState.LastBlockProcessed
	end, ok, err := f.confirmed(c)
	if err != nil || !ok {
		return err
	}
	c.WithFields(log.Fields{
		"contract": f.contractAddress,
		"start":    start,
		"end":      end,
	}).Info("fast fetch")
	for start+CaughtUpBlock < end {
		if err := f.processBlkRange(c, newBlockRange(start, end)); err != nil {
			return err
		}
		start = end + 1
		if end, _, err = f.confirmed(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *EventTracker) setupTrackerState(c ctx.Ctx) (*domain.TrackerState, error) {
	id := &domain.TrackerStateId{
		ChainId:         f.chainId,
		ContractAddress: domain.ToAddress(f.contractAddress),
		Tag:             f.trackerTag,
	}
	state, err := f.trackerStateUseCase.Get(c, id)
	if err == nil {
		if state.Version != Version {
			return nil, fmt.Errorf("cannot migrate tracker state from %d to %d", state.Version, Version)
		}
		return state, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	deployedBlk, err := getDeployedBlock(c, f.client, f.contractAddress)
	if err != nil {
		c.WithFields(log.Fields{
			"chainId":  f.chainId,
			"contract": f.contractAddress,
			"tag":      f.trackerTag,
			"err":      err,
		}).Error("getDeployedBlock failed")
		return nil, err
	}
	c.WithFields(log.Fields{
		"chainId":       f.chainId,
		"contract":      f.contractAddress,
		"deployedBlock": deployedBlk,
	}).Info("got deployedBlock")

	state = domain.NewTrackerState(id, Version, deployedBlk)
	if err := f.trackerStateUseCase.Store(c, state); err != nil {
		c.WithFields(log.Fields{
			"chainId":  f.chainId,
			"contract": f.contractAddress,
			"err":      err,
		}).Error("trackerStateUseCase.Store failed")
		return nil, err
	}
	return state, nil
}

func (f *EventTracker) processBlkRange(c ctx.Ctx, blkRange *blockRange) error {
	ranges := []*blockRange{blkRange}
	for len(ranges) > 0 {
		idx := len(ranges) - 1
		r := ranges[idx]
		ranges = ranges[:idx]

		tCtx, cancel := ctx.WithTimeout(c, TooManyLogsTimeout)
		logs, err := f.client.FilterLogs(tCtx, r.apply(f.filter))
		cancel()
		if err != nil {
			if r.single() {
				c.WithFields(log.Fields{
					"err":      err,
					"range":    r.String(),
					"contract": f.contractAddress,
				}).Error("failed to get logs within one block")
				return err
			}
			r1, r2 := r.split()
			ranges = append(ranges, r2, r1)
			c.WithFields(log.Fields{
				"err":           err,
				"originalRange": r.String(),
				"range1":        r1.String(),
				"range2":        r2.String(),
			}).Info("splitting blockRange")
			continue
		}

		fresh := make([]types.Log, 0, len(logs))
		for _, l := range logs {
			if !f.trackerState.Processed(l.BlockNumber, l.Index) {
				fresh = append(fresh, l)
			}
		}
		c.WithFields(log.Fields{
			"contract": f.contractAddress,
			"range":    r.String(),
			"#logs":    len(fresh),
		}).Info("received logs")

		withTime, err := f.toLogsWithBlockTime(c, fresh)
		if err != nil {
			c.WithField("err", err).Error("f.toLogsWithBlockTime failed")
			return xerrors.Errorf("failed to inject block time: %w", err)
		}

		for i := 0; i < len(withTime); i += eventBatchSize {
			j := i + eventBatchSize
			if j > len(withTime) {
				j = len(withTime)
			}
			batch := withTime[i:j]
			last := batch[len(batch)-1]
			if err := f.processEvents(c, batch, last.BlockNumber, int64(last.Index)); err != nil {
				c.WithField("err", err).Error("f.processEvents failed")
				return err
			}
		}

		// the whole range is done
		if err := f.processEvents(c, nil, r.end+1, -1); err != nil {
			c.WithField("err", err).Error("f.processEvents failed")
			return err
		}
	}
	return nil
}

func (f *EventTracker) processEvents(c ctx.Ctx, logs []logWithBlockTime, end uint64, logIndex int64) error {
	if len(logs) > 0 {
		if err := f.eventHandler.ProcessEvents(c, logs); err != nil {
			return xerrors.Errorf("failed to process events: %w", err)
		}
	}
	f.trackerState.LastBlockProcessed = end
	f.trackerState.LastLogIndexProcessed = logIndex
	if err := f.trackerStateUseCase.Update(c, f.trackerState); err != nil {
		return xerrors.Errorf("failed to store tracker state: %w", err)
	}
	return nil
}

func (f *EventTracker) toLogsWithBlockTime(c ctx.Ctx, logs []types.Log) ([]logWithBlockTime, error) {
	var (
		lastBlk  uint64
		lastTime time.Time
	)
	res := make([]logWithBlockTime, len(logs))
	for idx, l := range logs {
		if idx == 0 || lastBlk != l.BlockNumber {
			h, err := f.headerByNumberWithRetry(c, l.BlockNumber, 20, time.Second)
			if err != nil {
				c.WithFields(log.Fields{
					"err":    err,
					"number": l.BlockNumber,
				}).Error("failed to get header")
				return nil, err
			}
			lastBlk = l.BlockNumber
			lastTime = time.Unix(int64(h.Time), 0)
		}
		res[idx] = logWithBlockTime{Log: l, blockTime: lastTime}
	}
	return res, nil
}

func (f *EventTracker) headerByNumberWithRetry(c ctx.Ctx, number uint64, retryLimit int, interval time.Duration) (*types.Header, error) {
	var (
		err error
		h   *types.Header
	)
	blk := new(big.Int).SetUint64(number)
	for i := 0; i < retryLimit; i++ {
		if i > 0 {
			c.WithFields(log.Fields{
				"retry":    i,
				"interval": interval,
				"blk":      blk,
			}).Warn("client.HeaderByNumber failed, retry")
			select {
			case <-c.Done():
				return nil, xerrors.New("context canceled")
			case <-time.After(interval):
			}
			interval *= 2
		}
		h, err = f.client.HeaderByNumber(c, blk)
		if err == nil {
			break
		}
	}
	return h, err
}

// getDeployedBlock binary searches the first block where the contract has code
func getDeployedBlock(c ctx.Ctx, client domain.ChainReader, addr common.Address) (uint64, error) {
	blk, err := client.BlockNumber(c)
	if err != nil {
		return 0, err
	}
	l := blk
	s := blk
	for l > 0 {
		step := l / 2
		mid := s - step - 1
		b, err := client.CodeAt(c, addr, new(big.Int).SetUint64(mid))
		if err != nil {
			return 0, err
		}
		if len(b) > 0 {
			s = mid
			l -= step + 1
		} else {
			l = step
		}
	}
	return s, nil
}
