package tracker

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
)

const defaultDecimals = 18

type AuctionEventHandlerCfg struct {
	ChainId         domain.ChainId
	ActivityUseCase activity.UseCase
	// Decimals of the bid currency, 18 when zero
	Decimals int32
}

// trackedAuction is what later logs of an auction need from earlier ones
type trackedAuction struct {
	seller      domain.Address
	nftContract domain.Address
	itemId      string
	bidder      domain.Address
	price       *big.Int
}

type auctionEventHandler struct {
	chainId         domain.ChainId
	activityUseCase activity.UseCase
	decimals        int32

	mu       sync.Mutex
	auctions map[uint64]*trackedAuction
}

// NewAuctionEventHandler projects auction logs into activities. A Bid log
// refunds the previous highest bidder, so the handler remembers the
// current bidder of every open auction and falls back to stored activities.
func NewAuctionEventHandler(cfg *AuctionEventHandlerCfg) EventHandler {
	decimals := cfg.Decimals
	if decimals == 0 {
		decimals = defaultDecimals
	}
	return &auctionEventHandler{
		chainId:         cfg.ChainId,
		activityUseCase: cfg.ActivityUseCase,
		decimals:        decimals,
		auctions:        make(map[uint64]*trackedAuction),
	}
}

func (h *auctionEventHandler) GetFilterTopics() [][]common.Hash {
	return [][]common.Hash{{
		abi.AuctionCreateAuctionID,
		abi.AuctionBidID,
		abi.AuctionEndAuctionID,
		abi.AuctionCancelAuctionID,
	}}
}

func (h *auctionEventHandler) ProcessEvents(c ctx.Ctx, logs []logWithBlockTime) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	activities := []*activity.Activity{}
	for i := range logs {
		l := &logs[i]
		res, err := h.toActivities(c, l)
		if err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"txHash": l.TxHash.Hex(),
				"index":  l.Index,
			}).Error("toActivities failed")
			h.reset()
			return err
		}
		activities = append(activities, res...)
	}

	if err := h.activityUseCase.Project(c, activities); err != nil {
		c.WithField("err", err).Error("activityUseCase.Project failed")
		h.reset()
		return err
	}
	return nil
}

// reset drops the in memory view, it is rebuilt from stored activities
func (h *auctionEventHandler) reset() {
	h.auctions = make(map[uint64]*trackedAuction)
}

func (h *auctionEventHandler) toActivities(c ctx.Ctx, l *logWithBlockTime) ([]*activity.Activity, error) {
	meta := toLogMeta(l)
	switch l.Topics[0] {
	case abi.AuctionCreateAuctionID:
		ev, err := abi.ToCreateAuctionLog(&l.Log)
		if err != nil {
			return nil, err
		}
		a := &trackedAuction{
			seller:      domain.ToAddress(ev.Seller),
			nftContract: domain.ToAddress(ev.NftContract),
			itemId:      ev.ItemId.String(),
		}
		id := ev.AuctionId.Uint64()
		h.auctions[id] = a
		return []*activity.Activity{h.newActivity(meta, id, a, activity.TypeCreateAuction, a.seller, ev.Price)}, nil

	case abi.AuctionBidID:
		ev, err := abi.ToBidLog(&l.Log)
		if err != nil {
			return nil, err
		}
		id := ev.AuctionId.Uint64()
		a, err := h.lookup(c, meta, id)
		if err != nil {
			return nil, err
		}
		res := []*activity.Activity{}
		if a.bidder != "" {
			res = append(res, h.newActivity(meta, id, a, activity.TypeBidRefunded, a.bidder, a.price))
		}
		a.bidder = domain.ToAddress(ev.Sender)
		a.price = ev.Price
		return append(res, h.newActivity(meta, id, a, activity.TypePlaceBid, a.bidder, ev.Price)), nil

	case abi.AuctionEndAuctionID:
		ev, err := abi.ToEndAuctionLog(&l.Log)
		if err != nil {
			return nil, err
		}
		id := ev.AuctionId.Uint64()
		a, err := h.lookup(c, meta, id)
		if err != nil {
			return nil, err
		}
		delete(h.auctions, id)
		if a.bidder == "" {
			return []*activity.Activity{h.newActivity(meta, id, a, activity.TypeResultAuction, a.seller, nil)}, nil
		}
		return []*activity.Activity{
			h.newActivity(meta, id, a, activity.TypeResultAuction, a.seller, a.price),
			h.newActivity(meta, id, a, activity.TypeWonAuction, a.bidder, a.price),
		}, nil

	case abi.AuctionCancelAuctionID:
		ev, err := abi.ToCancelAuctionLog(&l.Log)
		if err != nil {
			return nil, err
		}
		id := ev.AuctionId.Uint64()
		a, err := h.lookup(c, meta, id)
		if err != nil {
			return nil, err
		}
		delete(h.auctions, id)
		canceler := a.seller
		if canceler == "" {
			canceler = domain.ToAddress(ev.Sender)
		}
		res := []*activity.Activity{h.newActivity(meta, id, a, activity.TypeCancelAuction, canceler, nil)}
		if a.bidder != "" {
			res = append(res, h.newActivity(meta, id, a, activity.TypeBidRefunded, a.bidder, a.price))
		}
		return res, nil
	}

	c.WithField("topic", l.Topics[0].Hex()).Warn("unexpected auction log")
	return nil, nil
}

// lookup returns the tracked auction, rebuilding it on a miss from the
// activities stored before the log at meta. A replayed range may already
// have later activities stored.
func (h *auctionEventHandler) lookup(c ctx.Ctx, meta *domain.LogMeta, id uint64) (*trackedAuction, error) {
	if a, ok := h.auctions[id]; ok {
		return a, nil
	}
	before := &activity.LogPosition{BlockNumber: meta.BlockNumber, LogIndex: int64(meta.LogIndex)}
	stored, _, err := h.activityUseCase.FindAll(
		c,
		activity.WithChainId(h.chainId),
		activity.WithContract(meta.ContractAddress),
		activity.WithAuctionId(id),
		activity.WithTypes(activity.TypeCreateAuction, activity.TypePlaceBid),
		activity.WithBefore(before.BlockNumber, before.LogIndex),
	)
	if err != nil {
		return nil, err
	}

	a := &trackedAuction{}
	// newest first
	for _, s := range stored {
		if !s.IsBefore(before) {
			continue
		}
		switch s.Type {
		case activity.TypeCreateAuction:
			a.seller = s.Account
			a.nftContract = s.NftContract
			a.itemId = s.ItemId
		case activity.TypePlaceBid:
			if a.bidder == "" {
				price, ok := new(big.Int).SetString(s.Price, 10)
				if !ok {
					price = new(big.Int)
				}
				a.bidder = s.Account
				a.price = price
			}
		}
	}
	if a.seller == "" {
		c.WithField("auctionId", id).Warn("auction created before the tracked range")
	}
	h.auctions[id] = a
	return a, nil
}

func (h *auctionEventHandler) newActivity(meta *domain.LogMeta, id uint64, a *trackedAuction, typ activity.Type, account domain.Address, price *big.Int) *activity.Activity {
	if price == nil {
		price = new(big.Int)
	}
	return &activity.Activity{
		ChainId:         h.chainId,
		ContractAddress: meta.ContractAddress,
		AuctionId:       id,
		NftContract:     a.nftContract,
		ItemId:          a.itemId,
		Type:            typ,
		Account:         account,
		Price:           price.String(),
		DisplayPrice:    decimal.NewFromBigInt(price, -h.decimals).String(),
		BlockNumber:     meta.BlockNumber,
		TxHash:          meta.TxHash,
		LogIndex:        int64(meta.LogIndex),
		Time:            meta.BlockTime,
	}
}
