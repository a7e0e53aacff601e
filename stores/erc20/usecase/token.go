package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain/erc20"
)

type TokenUseCaseCfg struct {
	Ledger   *ledger.Ledger
	Contract erc20.Contract
}

type tokenUseCase struct {
	ledger   *ledger.Ledger
	contract erc20.Contract
}

func NewTokenUseCase(cfg *TokenUseCaseCfg) erc20.UseCase {
	return &tokenUseCase{
		ledger:   cfg.Ledger,
		contract: cfg.Contract,
	}
}

func (u *tokenUseCase) Info(c ctx.Ctx) (*erc20.Info, error) {
	var res *erc20.Info
	u.ledger.Read(func() {
		res = u.contract.Info()
	})
	return res, nil
}

func (u *tokenUseCase) BalanceOf(c ctx.Ctx, owner common.Address) (*big.Int, error) {
	var res *big.Int
	u.ledger.Read(func() {
		res = u.contract.BalanceOf(owner)
	})
	return res, nil
}

func (u *tokenUseCase) Allowance(c ctx.Ctx, owner, spender common.Address) (*big.Int, error) {
	var res *big.Int
	u.ledger.Read(func() {
		res = u.contract.Allowance(owner, spender)
	})
	return res, nil
}

func (u *tokenUseCase) Transfer(c ctx.Ctx, from, to common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return u.execute(c, "Transfer", from, func(tx *ledger.Tx) error {
		return u.contract.Transfer(tx, to, amount)
	})
}

func (u *tokenUseCase) Approve(c ctx.Ctx, from, spender common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return u.execute(c, "Approve", from, func(tx *ledger.Tx) error {
		return u.contract.Approve(tx, spender, amount)
	})
}

func (u *tokenUseCase) TransferFrom(c ctx.Ctx, spender, from, to common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return u.execute(c, "TransferFrom", spender, func(tx *ledger.Tx) error {
		return u.contract.TransferFrom(tx, from, to, amount)
	})
}

func (u *tokenUseCase) execute(c ctx.Ctx, op string, from common.Address, fn func(*ledger.Tx) error) (*ledger.Receipt, error) {
	r, err := u.ledger.Execute(c, ledger.Msg{From: from, To: u.contract.Address()}, fn)
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"from": from,
		}).Warn("erc20." + op + " reverted")
		return nil, err
	}
	return r, nil
}
