package repository

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
)

type StateRepoCfg struct {
	Address         common.Address
	Variant         auction.Variant
	Owner           common.Address
	BidPricePercent uint64
	Token           common.Address
}

type stateRepo struct {
	cfg auction.Config

	auctions   []*auction.Auction
	bids       []*auction.Bid
	activities map[uint64][]uint64
	accounts   map[common.Address]*auction.AccountIndex
}

// NewStateRepo returns the storage of one auction contract, kept in memory and
// rolled back through the ledger journal
func NewStateRepo(cfg *StateRepoCfg) auction.Repo {
	return &stateRepo{
		cfg: auction.Config{
			Address:         cfg.Address,
			Variant:         cfg.Variant,
			Owner:           cfg.Owner,
			BidPricePercent: cfg.BidPricePercent,
			Token:           cfg.Token,
		},
		activities: make(map[uint64][]uint64),
		accounts:   make(map[common.Address]*auction.AccountIndex),
	}
}

func (r *stateRepo) Config() *auction.Config {
	res := r.cfg
	res.AuctionCount = uint64(len(r.auctions))
	res.BidCount = uint64(len(r.bids))
	return &res
}

func (r *stateRepo) SetOwner(tx *ledger.Tx, owner common.Address) {
	prev := r.cfg.Owner
	r.cfg.Owner = owner
	tx.Journal(func() { r.cfg.Owner = prev })
}

func (r *stateRepo) SetBidPricePercent(tx *ledger.Tx, pct uint64) {
	prev := r.cfg.BidPricePercent
	r.cfg.BidPricePercent = pct
	tx.Journal(func() { r.cfg.BidPricePercent = prev })
}

func (r *stateRepo) Count() uint64 {
	return uint64(len(r.auctions))
}

func (r *stateRepo) Get(id uint64) (*auction.Auction, error) {
	if id >= uint64(len(r.auctions)) {
		return nil, domain.ErrNotFound
	}
	return r.auctions[id].Copy(), nil
}

func (r *stateRepo) FindAll(optFns ...auction.FindAllOptions) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	matched := []*auction.Auction{}
	for _, a := range r.auctions {
		if opts.Seller != nil && a.Seller != *opts.Seller {
			continue
		}
		if opts.Bidder != nil && a.Bidder != *opts.Bidder {
			continue
		}
		if opts.NftContract != nil && a.NftContract != *opts.NftContract {
			continue
		}
		if opts.Status != nil && a.Status != *opts.Status {
			continue
		}
		matched = append(matched, a)
	}

	offset, limit := 0, len(matched)
	if opts.Offset != nil && *opts.Offset > 0 {
		offset = *opts.Offset
	}
	if opts.Limit != nil && *opts.Limit > 0 {
		limit = *opts.Limit
	}
	if offset >= len(matched) {
		return []*auction.Auction{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	res := make([]*auction.Auction, 0, end-offset)
	for _, a := range matched[offset:end] {
		res = append(res, a.Copy())
	}
	return res, nil
}

func (r *stateRepo) Insert(tx *ledger.Tx, a *auction.Auction) uint64 {
	id := uint64(len(r.auctions))
	rec := a.Copy()
	rec.Id = id
	r.auctions = append(r.auctions, rec)
	tx.Journal(func() { r.auctions = r.auctions[:id] })
	return id
}

func (r *stateRepo) Update(tx *ledger.Tx, a *auction.Auction) error {
	if a.Id >= uint64(len(r.auctions)) {
		return domain.ErrNotFound
	}
	prev := r.auctions[a.Id]
	r.auctions[a.Id] = a.Copy()
	tx.Journal(func() { r.auctions[prev.Id] = prev })
	return nil
}

func (r *stateRepo) BidCount() uint64 {
	return uint64(len(r.bids))
}

func (r *stateRepo) GetBid(id uint64) (*auction.Bid, error) {
	if id >= uint64(len(r.bids)) {
		return nil, domain.ErrNotFound
	}
	return r.bids[id].Copy(), nil
}

func (r *stateRepo) InsertBid(tx *ledger.Tx, b *auction.Bid) uint64 {
	id := uint64(len(r.bids))
	rec := b.Copy()
	rec.Id = id
	r.bids = append(r.bids, rec)

	prevActivities, had := r.activities[rec.AuctionId]
	r.activities[rec.AuctionId] = append(prevActivities[:len(prevActivities):len(prevActivities)], id)
	tx.Journal(func() {
		r.bids = r.bids[:id]
		if had {
			r.activities[rec.AuctionId] = prevActivities
		} else {
			delete(r.activities, rec.AuctionId)
		}
	})
	return id
}

func (r *stateRepo) Activities(auctionId uint64) []uint64 {
	return append([]uint64{}, r.activities[auctionId]...)
}

func (r *stateRepo) Account(addr common.Address) *auction.AccountIndex {
	if idx, ok := r.accounts[addr]; ok {
		return idx.Copy()
	}
	return auction.NewAccountIndex()
}

func (r *stateRepo) UpdateAccount(tx *ledger.Tx, addr common.Address, idx *auction.AccountIndex) {
	prev, had := r.accounts[addr]
	r.accounts[addr] = idx.Copy()
	tx.Journal(func() {
		if had {
			r.accounts[addr] = prev
		} else {
			delete(r.accounts, addr)
		}
	})
}
