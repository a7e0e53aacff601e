package chain

import (
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

type Block struct {
	ChainId domain.ChainId     `json:"chainId"`
	Hash    domain.BlockHash   `json:"hash"`
	Number  domain.BlockNumber `json:"number"`
	Time    time.Time          `json:"time"`
}

type UseCase interface {
	Head(ctx.Ctx) (*Block, error)
	BlockByNumber(c ctx.Ctx, number domain.BlockNumber) (*Block, error)

	// IncreaseTime moves the block clock forward and returns the timestamp the
	// next block gets. Only available on a development ledger.
	IncreaseTime(c ctx.Ctx, d time.Duration) (time.Time, error)
}
