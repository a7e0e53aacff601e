package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/erc20"
	"github.com/x-xyz/nftauction/domain/erc721"
	"github.com/x-xyz/nftauction/stores/auction/repository"
)

const (
	TokenAuctionName  = "BWPAuction"
	NativeAuctionName = "RFOXAUCTION"

	DefaultBidPricePercent = 103
)

type AuctionCfg struct {
	Variant         auction.Variant
	BidPricePercent uint64
	// Token is the bid currency, required by the token variant
	Token erc20.Contract
	Nfts  erc721.Directory
}

type auctionContract struct {
	address common.Address
	variant auction.Variant
	repo    auction.Repo
	token   erc20.Contract
	nfts    erc721.Directory

	locked bool
}

// Deploy creates an auction contract owned by tx.Sender() and returns it with its storage
func Deploy(tx *ledger.Tx, cfg *AuctionCfg) (auction.Contract, auction.Repo, error) {
	if !cfg.Variant.Valid() {
		return nil, nil, domain.ErrUnknownVariant
	}
	if cfg.Variant == auction.VariantToken && cfg.Token == nil {
		return nil, nil, domain.ErrMissingBidToken
	}
	if cfg.Variant == auction.VariantNative && !auction.ValidNativeBidPricePercent(cfg.BidPricePercent) {
		return nil, nil, domain.ErrInvalidBidPricePercent
	}

	name := NativeAuctionName
	tokenAddr := common.Address{}
	if cfg.Variant == auction.VariantToken {
		name = TokenAuctionName
		tokenAddr = cfg.Token.Address()
	}

	a := &auctionContract{
		address: tx.Deploy(name),
		variant: cfg.Variant,
		token:   cfg.Token,
		nfts:    cfg.Nfts,
	}
	a.repo = repository.NewStateRepo(&repository.StateRepoCfg{
		Address:         a.address,
		Variant:         cfg.Variant,
		Owner:           tx.Sender(),
		BidPricePercent: cfg.BidPricePercent,
		Token:           tokenAddr,
	})
	if err := a.emit(tx, "OwnershipTransferred", common.Address{}, tx.Sender()); err != nil {
		return nil, nil, err
	}
	return a, a.repo, nil
}

func (a *auctionContract) Address() common.Address {
	return a.address
}

func (a *auctionContract) Variant() auction.Variant {
	return a.variant
}

func (a *auctionContract) CreateAuction(tx *ledger.Tx, p *auction.CreateParams) (uint64, error) {
	var id uint64
	err := a.nonReentrant(func() error {
		if err := nonPayable(tx); err != nil {
			return err
		}
		seller := tx.Sender()
		if a.variant == auction.VariantNative && seller != a.repo.Config().Owner {
			return domain.ErrNotOwner
		}
		if p.End <= p.Start {
			return domain.ErrInvalidPeriod
		}
		if p.Price == nil || p.Price.Sign() <= 0 {
			return domain.ErrInvalidPrice
		}
		if p.ItemId == nil {
			return domain.ErrERC721InvalidToken
		}
		nft, ok := a.nfts.Lookup(p.NftContract)
		if !ok {
			return domain.ErrInvalidNftContract
		}

		id = a.repo.Insert(tx, &auction.Auction{
			Seller:      seller,
			NftContract: p.NftContract,
			ItemId:      p.ItemId,
			Start:       p.Start,
			End:         p.End,
			Price:       p.Price,
			Status:      auction.StatusNormal,
		})

		if err := nft.TransferFrom(tx.As(a.address), seller, a.address, p.ItemId); err != nil {
			return err
		}
		return a.emit(tx, "CreateAuction",
			seller,
			new(big.Int).SetUint64(id),
			p.NftContract,
			p.ItemId,
			p.Price,
			new(big.Int).SetUint64(p.Start),
			new(big.Int).SetUint64(p.End),
		)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (a *auctionContract) Bid(tx *ledger.Tx, auctionId uint64, amount *big.Int) error {
	return a.nonReentrant(func() error {
		if a.variant == auction.VariantNative {
			amount = tx.Value()
		} else if err := nonPayable(tx); err != nil {
			return err
		}
		if amount == nil {
			amount = new(big.Int)
		}

		au, err := a.get(auctionId)
		if err != nil {
			return err
		}
		if au.Status != auction.StatusNormal {
			return domain.ErrAuctionNotActive
		}
		if !au.InProgress(tx.Time()) {
			return domain.ErrAuctionNotInProgress
		}
		if amount.Cmp(auction.MinimumBid(au.Price, a.repo.Config().BidPricePercent)) < 0 {
			return domain.ErrPriceIsLow
		}

		bidder := tx.Sender()
		prevBidder, prevPrice, hadBidder := au.Bidder, au.Price, au.HasBidder()

		a.repo.InsertBid(tx, &auction.Bid{
			AuctionId:   auctionId,
			Bidder:      bidder,
			Price:       amount,
			Time:        tx.Time(),
			BlockNumber: tx.BlockNumber(),
		})

		idx := a.repo.Account(bidder)
		idx.BidCount++
		if !idx.HasBid(auctionId) {
			idx.AuctionIdsBid = append(idx.AuctionIdsBid, auctionId)
			idx.ItemIdsBid = append(idx.ItemIdsBid, domain.CopyBig(au.ItemId))
		}
		idx.StartBidding(auctionId)
		a.repo.UpdateAccount(tx, bidder, idx)

		if hadBidder && prevBidder != bidder {
			prevIdx := a.repo.Account(prevBidder)
			prevIdx.StopBidding(auctionId)
			a.repo.UpdateAccount(tx, prevBidder, prevIdx)
		}

		au.Price = amount
		au.Bidder = bidder
		if err := a.repo.Update(tx, au); err != nil {
			return err
		}

		if a.variant == auction.VariantToken {
			if err := a.token.TransferFrom(tx.As(a.address), bidder, a.address, amount); err != nil {
				return err
			}
		}
		if hadBidder {
			if err := a.pay(tx, prevBidder, prevPrice); err != nil {
				return err
			}
		}
		return a.emit(tx, "Bid", bidder, new(big.Int).SetUint64(auctionId), amount)
	})
}

func (a *auctionContract) EndAuction(tx *ledger.Tx, auctionId uint64) error {
	return a.nonReentrant(func() error {
		if err := nonPayable(tx); err != nil {
			return err
		}
		au, err := a.get(auctionId)
		if err != nil {
			return err
		}
		if au.Status != auction.StatusNormal {
			return domain.ErrAuctionNotActive
		}
		if tx.Time() < au.End {
			return domain.ErrAuctionNotEnded
		}
		nft, ok := a.nfts.Lookup(au.NftContract)
		if !ok {
			return domain.ErrInvalidNftContract
		}

		au.Status = auction.StatusEnded
		if err := a.repo.Update(tx, au); err != nil {
			return err
		}

		receiver := au.Seller
		if au.HasBidder() {
			receiver = au.Bidder
			idx := a.repo.Account(au.Bidder)
			idx.StopBidding(auctionId)
			idx.AuctionIdsWon = append(idx.AuctionIdsWon, auctionId)
			idx.ItemIdsWon = append(idx.ItemIdsWon, domain.CopyBig(au.ItemId))
			a.repo.UpdateAccount(tx, au.Bidder, idx)

			if err := a.pay(tx, au.Seller, au.Price); err != nil {
				return err
			}
		}
		if err := nft.TransferFrom(tx.As(a.address), a.address, receiver, au.ItemId); err != nil {
			return err
		}
		return a.emit(tx, "EndAuction", tx.Sender(), new(big.Int).SetUint64(auctionId))
	})
}

func (a *auctionContract) CancelAuction(tx *ledger.Tx, auctionId uint64) error {
	return a.nonReentrant(func() error {
		if err := nonPayable(tx); err != nil {
			return err
		}
		au, err := a.get(auctionId)
		if err != nil {
			return err
		}
		if tx.Sender() != au.Seller {
			return domain.ErrInvalidPermission
		}
		if au.Status != auction.StatusNormal {
			return domain.ErrAuctionNotActive
		}
		nft, ok := a.nfts.Lookup(au.NftContract)
		if !ok {
			return domain.ErrInvalidNftContract
		}

		au.Status = auction.StatusCanceled
		if err := a.repo.Update(tx, au); err != nil {
			return err
		}
		if au.HasBidder() {
			idx := a.repo.Account(au.Bidder)
			idx.StopBidding(auctionId)
			a.repo.UpdateAccount(tx, au.Bidder, idx)

			if err := a.pay(tx, au.Bidder, au.Price); err != nil {
				return err
			}
		}
		if err := nft.TransferFrom(tx.As(a.address), a.address, au.Seller, au.ItemId); err != nil {
			return err
		}
		return a.emit(tx, "CancelAuction", tx.Sender(), new(big.Int).SetUint64(auctionId))
	})
}

func (a *auctionContract) SetBidPricePercent(tx *ledger.Tx, pct uint64) error {
	return a.nonReentrant(func() error {
		if err := a.onlyOwner(tx); err != nil {
			return err
		}
		if a.variant == auction.VariantNative && !auction.ValidNativeBidPricePercent(pct) {
			return domain.ErrInvalidBidPricePercent
		}
		a.repo.SetBidPricePercent(tx, pct)
		return nil
	})
}

func (a *auctionContract) TransferOwnership(tx *ledger.Tx, newOwner common.Address) error {
	return a.nonReentrant(func() error {
		if err := a.onlyOwner(tx); err != nil {
			return err
		}
		if newOwner == (common.Address{}) {
			return domain.ErrZeroOwner
		}
		prev := a.repo.Config().Owner
		a.repo.SetOwner(tx, newOwner)
		return a.emit(tx, "OwnershipTransferred", prev, newOwner)
	})
}

func (a *auctionContract) MinimumBid(auctionId uint64) (*big.Int, error) {
	au, err := a.get(auctionId)
	if err != nil {
		return nil, err
	}
	return auction.MinimumBid(au.Price, a.repo.Config().BidPricePercent), nil
}

func (a *auctionContract) get(auctionId uint64) (*auction.Auction, error) {
	au, err := a.repo.Get(auctionId)
	if err == domain.ErrNotFound {
		return nil, domain.ErrInvalidAuction
	}
	return au, err
}

// pay sends escrowed funds from the auction in its bid currency
func (a *auctionContract) pay(tx *ledger.Tx, to common.Address, amount *big.Int) error {
	from := tx.As(a.address)
	if a.variant == auction.VariantToken {
		return a.token.Transfer(from, to, amount)
	}
	return from.Pay(to, amount)
}

func (a *auctionContract) onlyOwner(tx *ledger.Tx) error {
	if err := nonPayable(tx); err != nil {
		return err
	}
	if tx.Sender() != a.repo.Config().Owner {
		return domain.ErrNotOwner
	}
	return nil
}

// nonReentrant rejects calls made while another call of this contract is running
func (a *auctionContract) nonReentrant(fn func() error) error {
	if a.locked {
		return domain.ErrReentrantCall
	}
	a.locked = true
	defer func() { a.locked = false }()
	return fn()
}

func nonPayable(tx *ledger.Tx) error {
	if tx.Value().Sign() != 0 {
		return domain.ErrNotPayable
	}
	return nil
}

func (a *auctionContract) emit(tx *ledger.Tx, event string, args ...interface{}) error {
	topics, data, err := abi.PackEvent(abi.AuctionABI, event, args...)
	if err != nil {
		return err
	}
	tx.Emit(a.address, topics, data)
	return nil
}
