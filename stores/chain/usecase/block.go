package usecase

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/chain"
)

var ErrFixedClock = errors.New("block clock is not adjustable")

type ChainUseCaseCfg struct {
	Ledger *ledger.Ledger
	// Clock is nil when time travel is disabled
	Clock ledger.AdjustableClock
}

type chainUseCase struct {
	ledger *ledger.Ledger
	clock  ledger.AdjustableClock
}

func NewChainUseCase(cfg *ChainUseCaseCfg) chain.UseCase {
	return &chainUseCase{
		ledger: cfg.Ledger,
		clock:  cfg.Clock,
	}
}

func (u *chainUseCase) toBlock(c ctx.Ctx, h *types.Header) (*chain.Block, error) {
	chainId, err := u.ledger.ChainID(c)
	if err != nil {
		return nil, err
	}
	return &chain.Block{
		ChainId: domain.ChainId(chainId.Int64()),
		Hash:    domain.BlockHash(strings.ToLower(h.Hash().Hex())),
		Number:  domain.BlockNumber(h.Number.Uint64()),
		Time:    time.Unix(int64(h.Time), 0),
	}, nil
}

func (u *chainUseCase) Head(c ctx.Ctx) (*chain.Block, error) {
	return u.toBlock(c, u.ledger.Head())
}

func (u *chainUseCase) BlockByNumber(c ctx.Ctx, number domain.BlockNumber) (*chain.Block, error) {
	h, err := u.ledger.HeaderByNumber(c, new(big.Int).SetUint64(uint64(number)))
	if err == ethereum.NotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "number": number}).Error("ledger.HeaderByNumber failed")
		return nil, err
	}
	return u.toBlock(c, h)
}

func (u *chainUseCase) IncreaseTime(c ctx.Ctx, d time.Duration) (time.Time, error) {
	if u.clock == nil {
		return time.Time{}, ErrFixedClock
	}
	if d < 0 {
		return time.Time{}, domain.ErrBadParamInput
	}
	u.clock.Advance(d)
	now := time.Unix(int64(u.ledger.Now()), 0)
	c.WithFields(log.Fields{"by": d, "now": now}).Info("block clock advanced")
	return now, nil
}
