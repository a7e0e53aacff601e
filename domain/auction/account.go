package auction

import (
	"math/big"

	"github.com/x-xyz/nftauction/domain"
)

// AccountIndex is the per account view kept in step with the auctions
type AccountIndex struct {
	// BidCount counts every accepted bid, it is never decremented
	BidCount uint64 `json:"bidCount"`
	// ActiveBidCount counts auctions where the account is the highest bidder
	ActiveBidCount uint64     `json:"activeBidCount"`
	AuctionIdsBid  []uint64   `json:"auctionIdsBid"`
	ItemIdsBid     []*big.Int `json:"itemIdsBid"`
	Bidding        []uint64   `json:"bidding"`
	AuctionIdsWon  []uint64   `json:"auctionIdsWon"`
	ItemIdsWon     []*big.Int `json:"itemIdsWon"`
}

func NewAccountIndex() *AccountIndex {
	return &AccountIndex{
		AuctionIdsBid: []uint64{},
		ItemIdsBid:    []*big.Int{},
		Bidding:       []uint64{},
		AuctionIdsWon: []uint64{},
		ItemIdsWon:    []*big.Int{},
	}
}

func (a *AccountIndex) Copy() *AccountIndex {
	return &AccountIndex{
		BidCount:       a.BidCount,
		ActiveBidCount: a.ActiveBidCount,
		AuctionIdsBid:  append([]uint64{}, a.AuctionIdsBid...),
		ItemIdsBid:     copyBigs(a.ItemIdsBid),
		Bidding:        append([]uint64{}, a.Bidding...),
		AuctionIdsWon:  append([]uint64{}, a.AuctionIdsWon...),
		ItemIdsWon:     copyBigs(a.ItemIdsWon),
	}
}

func (a *AccountIndex) HasBid(auctionId uint64) bool {
	return contains(a.AuctionIdsBid, auctionId)
}

func (a *AccountIndex) IsBidding(auctionId uint64) bool {
	return contains(a.Bidding, auctionId)
}

// StartBidding records the account becoming the highest bidder
func (a *AccountIndex) StartBidding(auctionId uint64) {
	if a.IsBidding(auctionId) {
		return
	}
	a.Bidding = append(a.Bidding, auctionId)
	a.ActiveBidCount++
}

// StopBidding drops auctionId from the active list, removing twice is a no-op
func (a *AccountIndex) StopBidding(auctionId uint64) {
	for i, id := range a.Bidding {
		if id == auctionId {
			a.Bidding = append(a.Bidding[:i:i], a.Bidding[i+1:]...)
			if a.ActiveBidCount > 0 {
				a.ActiveBidCount--
			}
			return
		}
	}
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func copyBigs(vs []*big.Int) []*big.Int {
	res := make([]*big.Int, len(vs))
	for i, v := range vs {
		res[i] = domain.CopyBig(v)
	}
	return res
}
