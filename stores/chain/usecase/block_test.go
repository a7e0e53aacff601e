package usecase

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
)

func TestChainUseCase(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	clock := ledger.NewManualClock(time.Unix(1600000000, 0))
	l := ledger.New(&ledger.Config{ChainId: 1337, Clock: clock})
	defer l.Close()
	uc := NewChainUseCase(&ChainUseCaseCfg{Ledger: l, Clock: clock})

	head, err := uc.Head(c)
	req.NoError(err)
	req.Equal(domain.BlockNumber(0), head.Number)
	req.Equal(domain.ChainId(1337), head.ChainId)

	now, err := uc.IncreaseTime(c, time.Hour)
	req.NoError(err)
	req.Equal(time.Unix(1600003600, 0), now)

	r, err := l.Execute(c, ledger.Msg{From: common.HexToAddress("0x01")}, func(tx *ledger.Tx) error { return nil })
	req.NoError(err)
	req.Equal(uint64(1), r.BlockNumber)

	b, err := uc.BlockByNumber(c, 1)
	req.NoError(err)
	req.Equal(time.Unix(1600003600, 0), b.Time)
	head, err = uc.Head(c)
	req.NoError(err)
	req.Equal(b, head)

	_, err = uc.BlockByNumber(c, 2)
	req.Equal(domain.ErrNotFound, err)

	_, err = uc.IncreaseTime(c, -time.Second)
	req.Equal(domain.ErrBadParamInput, err)

	fixed := NewChainUseCase(&ChainUseCaseCfg{Ledger: l})
	_, err = fixed.IncreaseTime(c, time.Second)
	req.Equal(ErrFixedClock, err)
}
