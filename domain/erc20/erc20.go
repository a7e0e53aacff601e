package erc20

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
)

// Info is the metadata of a deployed token
type Info struct {
	Address     common.Address `json:"address"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Decimals    uint8          `json:"decimals"`
	TotalSupply *big.Int       `json:"totalSupply"`
}

// Contract is a fungible token living on the ledger. Mutations run inside a
// ledger transaction with tx.Sender() as msg.sender. Views read the latest state
// and must run under the ledger lock.
type Contract interface {
	Address() common.Address
	Info() *Info
	BalanceOf(owner common.Address) *big.Int
	Allowance(owner, spender common.Address) *big.Int

	Transfer(tx *ledger.Tx, to common.Address, amount *big.Int) error
	Approve(tx *ledger.Tx, spender common.Address, amount *big.Int) error
	TransferFrom(tx *ledger.Tx, from, to common.Address, amount *big.Int) error
	IncreaseAllowance(tx *ledger.Tx, spender common.Address, added *big.Int) error
	DecreaseAllowance(tx *ledger.Tx, spender common.Address, subtracted *big.Int) error
}

type UseCase interface {
	Info(ctx.Ctx) (*Info, error)
	BalanceOf(c ctx.Ctx, owner common.Address) (*big.Int, error)
	Allowance(c ctx.Ctx, owner, spender common.Address) (*big.Int, error)

	Transfer(c ctx.Ctx, from, to common.Address, amount *big.Int) (*ledger.Receipt, error)
	Approve(c ctx.Ctx, from, spender common.Address, amount *big.Int) (*ledger.Receipt, error)
	TransferFrom(c ctx.Ctx, spender, from, to common.Address, amount *big.Int) (*ledger.Receipt, error)
}
