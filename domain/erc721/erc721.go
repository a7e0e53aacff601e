package erc721

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
)

type Info struct {
	Address       common.Address `json:"address"`
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	Owner         common.Address `json:"owner"`
	ProxyRegistry common.Address `json:"proxyRegistry"`
	TotalSupply   uint64         `json:"totalSupply"`
}

type Token struct {
	TokenId  *big.Int       `json:"tokenId"`
	Owner    common.Address `json:"owner"`
	Approved common.Address `json:"approved"`
	TokenURI string         `json:"tokenUri"`
}

// Contract is a tradable non fungible token living on the ledger, token ids
// start at 1. Views must run under the ledger lock.
type Contract interface {
	Address() common.Address
	Info() *Info

	OwnerOf(tokenId *big.Int) (common.Address, error)
	BalanceOf(owner common.Address) (*big.Int, error)
	GetApproved(tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(owner, operator common.Address) bool
	TokenURI(tokenId *big.Int) (string, error)

	MintTo(tx *ledger.Tx, to common.Address) (*big.Int, error)
	Approve(tx *ledger.Tx, to common.Address, tokenId *big.Int) error
	SetApprovalForAll(tx *ledger.Tx, operator common.Address, approved bool) error
	TransferFrom(tx *ledger.Tx, from, to common.Address, tokenId *big.Int) error
}

// ProxyRegistry maps an account to the proxy allowed to trade all of its tokens
type ProxyRegistry interface {
	Address() common.Address
	Proxies(owner common.Address) common.Address
	RegisterProxy(tx *ledger.Tx, proxy common.Address) error
}

// Directory resolves nft contracts deployed on the ledger by address
type Directory interface {
	Lookup(addr common.Address) (Contract, bool)
}

type UseCase interface {
	Info(ctx.Ctx) (*Info, error)
	Get(c ctx.Ctx, tokenId *big.Int) (*Token, error)
	BalanceOf(c ctx.Ctx, owner common.Address) (*big.Int, error)
	IsApprovedForAll(c ctx.Ctx, owner, operator common.Address) (bool, error)

	MintTo(c ctx.Ctx, from, to common.Address) (*big.Int, *ledger.Receipt, error)
	Approve(c ctx.Ctx, from, to common.Address, tokenId *big.Int) (*ledger.Receipt, error)
	SetApprovalForAll(c ctx.Ctx, from, operator common.Address, approved bool) (*ledger.Receipt, error)
	TransferFrom(c ctx.Ctx, sender, from, to common.Address, tokenId *big.Int) (*ledger.Receipt, error)
	RegisterProxy(c ctx.Ctx, from, proxy common.Address) (*ledger.Receipt, error)
}
