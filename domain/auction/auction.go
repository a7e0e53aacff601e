package auction

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/domain"
)

type Status uint8

const (
	StatusNormal Status = iota
	StatusEnded
	StatusCanceled
)

var ErrUnknownStatus = errors.New("unknown auction status")

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusEnded:
		return "ended"
	case StatusCanceled:
		return "canceled"
	}
	return "unknown"
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "normal":
		return StatusNormal, nil
	case "ended":
		return StatusEnded, nil
	case "canceled":
		return StatusCanceled, nil
	}
	return 0, ErrUnknownStatus
}

// Variant selects how bids are paid
type Variant string

const (
	// VariantToken pulls bids from an erc20 allowance
	VariantToken Variant = "token"
	// VariantNative takes the value attached to the bid, only the owner lists items
	VariantNative Variant = "native"
)

func (v Variant) Valid() bool {
	return v == VariantToken || v == VariantNative
}

const (
	MinNativeBidPricePercent = 100
	MaxNativeBidPricePercent = 120
)

// ValidNativeBidPricePercent reports whether pct lies in (100, 120]
func ValidNativeBidPricePercent(pct uint64) bool {
	return pct > MinNativeBidPricePercent && pct <= MaxNativeBidPricePercent
}

type Auction struct {
	Id          uint64         `json:"id"`
	Seller      common.Address `json:"seller"`
	NftContract common.Address `json:"nftContract"`
	ItemId      *big.Int       `json:"itemId"`
	Start       uint64         `json:"start"`
	End         uint64         `json:"end"`
	Price       *big.Int       `json:"price"`
	Bidder      common.Address `json:"bidder"`
	Status      Status         `json:"status"`
}

func (a *Auction) Copy() *Auction {
	res := *a
	res.ItemId = domain.CopyBig(a.ItemId)
	res.Price = domain.CopyBig(a.Price)
	return &res
}

func (a *Auction) HasBidder() bool {
	return a.Bidder != (common.Address{})
}

// InProgress tells whether bids are accepted at the given block time
func (a *Auction) InProgress(now uint64) bool {
	return a.Start <= now && now <= a.End
}

// MinimumBid returns the lowest amount a bid must reach, floor(price * pct / 100)
// raised to price + 1 when it does not exceed the price
func MinimumBid(price *big.Int, bidPricePercent uint64) *big.Int {
	min := new(big.Int).Mul(price, new(big.Int).SetUint64(bidPricePercent))
	min.Div(min, domain.Big100)
	if min.Cmp(price) <= 0 {
		min.Add(price, domain.Big1)
	}
	return min
}

// Bid is an accepted bid, ids are global and never reused
type Bid struct {
	Id          uint64         `json:"id"`
	AuctionId   uint64         `json:"auctionId"`
	Bidder      common.Address `json:"bidder"`
	Price       *big.Int       `json:"price"`
	Time        uint64         `json:"time"`
	BlockNumber uint64         `json:"blockNumber"`
}

func (b *Bid) Copy() *Bid {
	res := *b
	res.Price = domain.CopyBig(b.Price)
	return &res
}

// Config is the contract level configuration
type Config struct {
	Address         common.Address `json:"address"`
	Variant         Variant        `json:"variant"`
	Owner           common.Address `json:"owner"`
	BidPricePercent uint64         `json:"bidPricePercent"`
	// Token is the bid currency of the token variant
	Token        common.Address `json:"token"`
	AuctionCount uint64         `json:"auctionCount"`
	BidCount     uint64         `json:"bidCount"`
}

type CreateParams struct {
	NftContract common.Address
	ItemId      *big.Int
	Price       *big.Int
	Start       uint64
	End         uint64
}
