package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
)

type AuctionUseCaseCfg struct {
	Ledger   *ledger.Ledger
	Contract auction.Contract
	Repo     auction.Repo
}

type auctionUseCase struct {
	ledger   *ledger.Ledger
	contract auction.Contract
	repo     auction.Repo
	met      metrics.Service
}

func NewAuctionUseCase(cfg *AuctionUseCaseCfg) auction.UseCase {
	return &auctionUseCase{
		ledger:   cfg.Ledger,
		contract: cfg.Contract,
		repo:     cfg.Repo,
		met:      metrics.New("auction"),
	}
}

func (u *auctionUseCase) Config(c ctx.Ctx) (*auction.Config, error) {
	var res *auction.Config
	u.ledger.Read(func() {
		res = u.repo.Config()
	})
	return res, nil
}

func (u *auctionUseCase) Get(c ctx.Ctx, id uint64) (*auction.Auction, error) {
	var (
		res *auction.Auction
		err error
	)
	u.ledger.Read(func() {
		res, err = u.repo.Get(id)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (u *auctionUseCase) FindAll(c ctx.Ctx, opts ...auction.FindAllOptions) ([]*auction.Auction, error) {
	var (
		res []*auction.Auction
		err error
	)
	u.ledger.Read(func() {
		res, err = u.repo.FindAll(opts...)
	})
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (u *auctionUseCase) MinimumBid(c ctx.Ctx, id uint64) (*big.Int, error) {
	var (
		res *big.Int
		err error
	)
	u.ledger.Read(func() {
		res, err = u.contract.MinimumBid(id)
	})
	if err == domain.ErrInvalidAuction {
		return nil, domain.ErrNotFound
	}
	return res, err
}

// Activities returns the bids placed on an auction, oldest first
func (u *auctionUseCase) Activities(c ctx.Ctx, id uint64) ([]*auction.Bid, error) {
	var (
		res []*auction.Bid
		err error
	)
	u.ledger.Read(func() {
		if id >= u.repo.Count() {
			err = domain.ErrNotFound
			return
		}
		ids := u.repo.Activities(id)
		res = make([]*auction.Bid, 0, len(ids))
		for _, bidId := range ids {
			b, bErr := u.repo.GetBid(bidId)
			if bErr != nil {
				err = bErr
				return
			}
			res = append(res, b)
		}
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (u *auctionUseCase) GetBid(c ctx.Ctx, id uint64) (*auction.Bid, error) {
	var (
		res *auction.Bid
		err error
	)
	u.ledger.Read(func() {
		res, err = u.repo.GetBid(id)
	})
	return res, err
}

func (u *auctionUseCase) Account(c ctx.Ctx, addr common.Address) (*auction.AccountIndex, error) {
	var res *auction.AccountIndex
	u.ledger.Read(func() {
		res = u.repo.Account(addr)
	})
	return res, nil
}

func (u *auctionUseCase) CreateAuction(c ctx.Ctx, from common.Address, p *auction.CreateParams) (uint64, *ledger.Receipt, error) {
	var id uint64
	r, err := u.execute(c, "createAuction", ledger.Msg{From: from, To: u.contract.Address()}, func(tx *ledger.Tx) error {
		var err error
		id, err = u.contract.CreateAuction(tx, p)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	c.WithFields(log.Fields{
		"auctionId":   id,
		"seller":      from,
		"nftContract": p.NftContract,
		"itemId":      p.ItemId,
	}).Info("auction created")
	return id, r, nil
}

func (u *auctionUseCase) Bid(c ctx.Ctx, from common.Address, id uint64, amount *big.Int) (*ledger.Receipt, error) {
	msg := ledger.Msg{From: from, To: u.contract.Address()}
	if u.contract.Variant() == auction.VariantNative {
		msg.Value = amount
	}
	return u.execute(c, "bid", msg, func(tx *ledger.Tx) error {
		return u.contract.Bid(tx, id, amount)
	})
}

func (u *auctionUseCase) EndAuction(c ctx.Ctx, from common.Address, id uint64) (*ledger.Receipt, error) {
	return u.execute(c, "endAuction", ledger.Msg{From: from, To: u.contract.Address()}, func(tx *ledger.Tx) error {
		return u.contract.EndAuction(tx, id)
	})
}

func (u *auctionUseCase) CancelAuction(c ctx.Ctx, from common.Address, id uint64) (*ledger.Receipt, error) {
	return u.execute(c, "cancelAuction", ledger.Msg{From: from, To: u.contract.Address()}, func(tx *ledger.Tx) error {
		return u.contract.CancelAuction(tx, id)
	})
}

func (u *auctionUseCase) SetBidPricePercent(c ctx.Ctx, from common.Address, pct uint64) (*ledger.Receipt, error) {
	return u.execute(c, "setBidPricePercent", ledger.Msg{From: from, To: u.contract.Address()}, func(tx *ledger.Tx) error {
		return u.contract.SetBidPricePercent(tx, pct)
	})
}

func (u *auctionUseCase) TransferOwnership(c ctx.Ctx, from, newOwner common.Address) (*ledger.Receipt, error) {
	return u.execute(c, "transferOwnership", ledger.Msg{From: from, To: u.contract.Address()}, func(tx *ledger.Tx) error {
		return u.contract.TransferOwnership(tx, newOwner)
	})
}

func (u *auctionUseCase) execute(c ctx.Ctx, op string, msg ledger.Msg, fn func(*ledger.Tx) error) (*ledger.Receipt, error) {
	defer u.met.BumpTime(op+".time", "variant", string(u.contract.Variant())).End()

	r, err := u.ledger.Execute(c, msg, fn)
	if err != nil {
		u.met.BumpSum(op+".revert", 1, "variant", string(u.contract.Variant()))
		c.WithFields(log.Fields{
			"err":  err,
			"from": msg.From,
			"op":   op,
		}).Warn("auction transaction reverted")
		return nil, err
	}
	u.met.BumpSum(op+".count", 1, "variant", string(u.contract.Variant()))
	return r, nil
}
