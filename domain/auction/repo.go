package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
)

type findAllOptions struct {
	Offset      *int
	Limit       *int
	Seller      *common.Address
	Bidder      *common.Address
	NftContract *common.Address
	Status      *Status
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (*findAllOptions, error) {
	res := &findAllOptions{}
	for _, opt := range opts {
		if err := opt(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func WithPagination(offset, limit int) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Offset = &offset
		opts.Limit = &limit
		return nil
	}
}

func WithSeller(seller common.Address) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Seller = &seller
		return nil
	}
}

func WithBidder(bidder common.Address) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Bidder = &bidder
		return nil
	}
}

func WithNftContract(contract common.Address) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.NftContract = &contract
		return nil
	}
}

func WithStatus(status Status) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Status = &status
		return nil
	}
}

// Repo is the storage of one auction contract. Writes take the running
// transaction and journal their undo. Reads return copies and need the ledger
// lock, either a running transaction or ledger.Read.
type Repo interface {
	Config() *Config
	SetOwner(tx *ledger.Tx, owner common.Address)
	SetBidPricePercent(tx *ledger.Tx, pct uint64)

	Count() uint64
	Get(id uint64) (*Auction, error)
	FindAll(opts ...FindAllOptions) ([]*Auction, error)
	Insert(tx *ledger.Tx, a *Auction) uint64
	Update(tx *ledger.Tx, a *Auction) error

	BidCount() uint64
	GetBid(id uint64) (*Bid, error)
	InsertBid(tx *ledger.Tx, b *Bid) uint64
	// Activities returns the ids of the bids placed on an auction in order
	Activities(auctionId uint64) []uint64

	Account(addr common.Address) *AccountIndex
	UpdateAccount(tx *ledger.Tx, addr common.Address, idx *AccountIndex)
}

// Contract holds the auction rules. Every mutation runs inside a ledger
// transaction, tx.Sender() is the caller and tx.Value() the attached value.
type Contract interface {
	Address() common.Address
	Variant() Variant

	CreateAuction(tx *ledger.Tx, p *CreateParams) (uint64, error)
	Bid(tx *ledger.Tx, auctionId uint64, amount *big.Int) error
	EndAuction(tx *ledger.Tx, auctionId uint64) error
	CancelAuction(tx *ledger.Tx, auctionId uint64) error
	SetBidPricePercent(tx *ledger.Tx, pct uint64) error
	TransferOwnership(tx *ledger.Tx, newOwner common.Address) error

	MinimumBid(auctionId uint64) (*big.Int, error)
}

type UseCase interface {
	Config(ctx.Ctx) (*Config, error)
	Get(c ctx.Ctx, id uint64) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Auction, error)
	MinimumBid(c ctx.Ctx, id uint64) (*big.Int, error)
	Activities(c ctx.Ctx, id uint64) ([]*Bid, error)
	GetBid(c ctx.Ctx, id uint64) (*Bid, error)
	Account(c ctx.Ctx, addr common.Address) (*AccountIndex, error)

	CreateAuction(c ctx.Ctx, from common.Address, p *CreateParams) (uint64, *ledger.Receipt, error)
	// Bid places amount, attached as value in the native variant
	Bid(c ctx.Ctx, from common.Address, id uint64, amount *big.Int) (*ledger.Receipt, error)
	EndAuction(c ctx.Ctx, from common.Address, id uint64) (*ledger.Receipt, error)
	CancelAuction(c ctx.Ctx, from common.Address, id uint64) (*ledger.Receipt, error)
	SetBidPricePercent(c ctx.Ctx, from common.Address, pct uint64) (*ledger.Receipt, error)
	TransferOwnership(c ctx.Ctx, from, newOwner common.Address) (*ledger.Receipt, error)
}
