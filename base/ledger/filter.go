package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

const subscriptionBuffer = 128

func (l *Ledger) BlockNumber(context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.headers) - 1), nil
}

func (l *Ledger) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if number == nil {
		return types.CopyHeader(l.headers[len(l.headers)-1]), nil
	}
	if number.Sign() < 0 || number.Cmp(big.NewInt(int64(len(l.headers)))) >= 0 {
		return nil, ethereum.NotFound
	}
	return types.CopyHeader(l.headers[number.Uint64()]), nil
}

// CodeAt returns a non empty code for contracts deployed at or before the block
func (l *Ledger) CodeAt(_ context.Context, addr common.Address, number *big.Int) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.code[addr]
	if !ok {
		return nil, nil
	}
	if number != nil && number.Uint64() < c.block {
		return nil, nil
	}
	return []byte(c.name), nil
}

func (l *Ledger) BalanceAt(_ context.Context, addr common.Address, number *big.Int) (*big.Int, error) {
	if number != nil && number.Uint64() != l.Head().Number.Uint64() {
		return nil, ethereum.NotFound
	}
	return l.Balance(addr), nil
}

func (l *Ledger) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	from, to := uint64(0), uint64(len(l.headers)-1)
	if q.FromBlock != nil {
		from = q.FromBlock.Uint64()
	}
	if q.ToBlock != nil && q.ToBlock.Uint64() < to {
		to = q.ToBlock.Uint64()
	}

	res := []types.Log{}
	for _, lg := range l.logs {
		if q.BlockHash != nil {
			if lg.BlockHash != *q.BlockHash {
				continue
			}
		} else if lg.BlockNumber < from || lg.BlockNumber > to {
			continue
		}
		if matchLog(&q, &lg) {
			res = append(res, lg)
		}
	}
	return res, nil
}

// SubscribeFilterLogs streams logs committed after the call, from/to blocks are ignored
func (l *Ledger) SubscribeFilterLogs(_ context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	logs := make(chan types.Log, subscriptionBuffer)
	feedSub := l.scope.Track(l.feed.Subscribe(logs))
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer feedSub.Unsubscribe()
		for {
			select {
			case lg := <-logs:
				if !matchLog(&q, &lg) {
					continue
				}
				select {
				case ch <- lg:
				case <-quit:
					return nil
				}
			case err := <-feedSub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

func matchLog(q *ethereum.FilterQuery, lg *types.Log) bool {
	if len(q.Addresses) > 0 {
		found := false
		for _, a := range q.Addresses {
			if a == lg.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(q.Topics) > len(lg.Topics) {
		return false
	}
	for i, alternatives := range q.Topics {
		if len(alternatives) == 0 {
			continue
		}
		found := false
		for _, t := range alternatives {
			if t == lg.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
