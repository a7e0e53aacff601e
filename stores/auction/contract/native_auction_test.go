package contract

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
)

type nativeAuctionSuite struct {
	world
}

func TestNativeAuctionSuite(t *testing.T) {
	suite.Run(t, new(nativeAuctionSuite))
}

func (s *nativeAuctionSuite) SetupTest() {
	s.setup(auction.VariantNative, DefaultBidPricePercent)
}

func (s *nativeAuctionSuite) TearDownTest() {
	s.l.Close()
}

func (s *nativeAuctionSuite) setBidPricePercent(from common.Address, pct uint64) error {
	_, err := s.exec(from, nil, func(tx *ledger.Tx) error {
		return s.auction.SetBidPricePercent(tx, pct)
	})
	return err
}

func (s *nativeAuctionSuite) TestBidPricePercentBounds() {
	err := s.setBidPricePercent(owner, 100)
	s.True(errors.Is(err, domain.ErrInvalidBidPricePercent))
	s.Equal("execution reverted: Invalid Bid Price Percent", err.Error())
	s.True(errors.Is(s.setBidPricePercent(owner, 121), domain.ErrInvalidBidPricePercent))
	s.Equal(uint64(103), s.repo.Config().BidPricePercent)

	s.True(errors.Is(s.setBidPricePercent(bob, 110), domain.ErrNotOwner))

	s.NoError(s.setBidPricePercent(owner, 110))
	s.Equal(uint64(110), s.repo.Config().BidPricePercent)
	s.NoError(s.setBidPricePercent(owner, 120))
	s.NoError(s.setBidPricePercent(owner, 101))

	s.NoError(s.setBidPricePercent(owner, 110))
	id := s.listItem(owner, ether(10))
	min, err := s.auction.MinimumBid(id)
	s.NoError(err)
	s.Equal(ether(11).String(), min.String())
}

func (s *nativeAuctionSuite) TestCreateAuctionOnlyOwner() {
	var itemId *big.Int
	_, err := s.l.Execute(bg, ledger.Msg{From: owner, To: s.nft.Address()}, func(tx *ledger.Tx) error {
		var err error
		itemId, err = s.nft.MintTo(tx, seller)
		return err
	})
	s.Require().NoError(err)
	_, err = s.l.Execute(bg, ledger.Msg{From: seller, To: s.nft.Address()}, func(tx *ledger.Tx) error {
		return s.nft.SetApprovalForAll(tx, s.auction.Address(), true)
	})
	s.Require().NoError(err)

	_, err = s.exec(seller, nil, func(tx *ledger.Tx) error {
		_, err := s.auction.CreateAuction(tx, &auction.CreateParams{
			NftContract: s.nft.Address(),
			ItemId:      itemId,
			Price:       ether(1),
			Start:       t0,
			End:         t0 + 6,
		})
		return err
	})
	s.True(errors.Is(err, domain.ErrNotOwner))
	s.Equal(uint64(0), s.repo.Count())
	s.Equal(seller, s.ownerOf(itemId))
}

func (s *nativeAuctionSuite) TestScenario() {
	s.Require().NoError(s.setBidPricePercent(owner, 110))
	id := s.listItem(owner, ether(1))
	itemId := s.get(id).ItemId

	s.Require().NoError(s.bid(bob, id, ether(2)))
	s.Equal(ether(998).String(), s.balance(bob).String())

	min, err := s.auction.MinimumBid(id)
	s.Require().NoError(err)
	s.Equal("2200000000000000000", min.String())
	err = s.bid(carol, id, new(big.Int).Sub(min, big.NewInt(1)))
	s.True(errors.Is(err, domain.ErrPriceIsLow))
	s.Equal(ether(1000).String(), s.balance(carol).String())

	var r *ledger.Receipt
	r, err = s.exec(carol, ether(3), func(tx *ledger.Tx) error {
		return s.auction.Bid(tx, id, nil)
	})
	s.Require().NoError(err)
	s.Require().Len(r.Logs, 1)
	ev, err := abi.ToBidLog(&r.Logs[0])
	s.Require().NoError(err)
	s.Equal(carol, ev.Sender)
	s.Equal(uint64(0), ev.AuctionId.Uint64())
	s.Equal(ether(3).String(), ev.Price.String())

	s.Equal(ether(1000).String(), s.balance(bob).String())
	s.Equal(ether(997).String(), s.balance(carol).String())
	s.Equal(ether(3).String(), s.balance(s.auction.Address()).String())

	s.advance(6 * time.Second)
	_, err = s.exec(bob, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, id)
	})
	s.Require().NoError(err)
	s.Equal(ether(1003).String(), s.balance(owner).String())
	s.Equal(int64(0), s.balance(s.auction.Address()).Int64())
	s.Equal(carol, s.ownerOf(itemId))
	s.Equal([]uint64{id}, s.repo.Account(carol).AuctionIdsWon)
}

func (s *nativeAuctionSuite) TestReentrantRefund() {
	id := s.listItem(owner, ether(1))
	s.Require().NoError(s.bid(bob, id, ether(2)))

	s.l.SetReceiver(bob, func(tx *ledger.Tx, amount *big.Int) error {
		return s.auction.Bid(tx.As(bob), id, nil)
	})
	err := s.bid(carol, id, ether(3))
	s.True(errors.Is(err, domain.ErrReentrantCall))

	a := s.get(id)
	s.Equal(bob, a.Bidder)
	s.Equal(ether(2).String(), a.Price.String())
	s.Equal(ether(998).String(), s.balance(bob).String())
	s.Equal(ether(1000).String(), s.balance(carol).String())
	s.Equal(uint64(1), s.repo.BidCount())
	s.Equal(uint64(0), s.repo.Account(carol).BidCount)
	s.Equal([]uint64{id}, s.repo.Account(bob).Bidding)
}

func (s *nativeAuctionSuite) TestRefundFailureRollsBack() {
	id := s.listItem(owner, ether(1))
	s.Require().NoError(s.bid(bob, id, ether(2)))

	rejected := errors.New("rejected")
	s.l.SetReceiver(bob, func(tx *ledger.Tx, amount *big.Int) error {
		return rejected
	})
	err := s.bid(carol, id, ether(3))
	s.True(errors.Is(err, rejected))

	s.Equal(bob, s.get(id).Bidder)
	s.Equal(ether(2).String(), s.balance(s.auction.Address()).String())
	s.Equal(ether(1000).String(), s.balance(carol).String())
	s.Equal([]uint64{0}, s.repo.Activities(id))
	bobIdx := s.repo.Account(bob)
	s.Equal(uint64(1), bobIdx.ActiveBidCount)
	s.Equal([]uint64{id}, bobIdx.Bidding)
	s.Empty(s.repo.Account(carol).AuctionIdsBid)

	s.l.SetReceiver(bob, nil)
	s.NoError(s.bid(carol, id, ether(3)))
}

func (s *nativeAuctionSuite) TestSelfOutbid() {
	id := s.listItem(owner, ether(1))
	s.Require().NoError(s.bid(bob, id, ether(2)))
	s.Require().NoError(s.bid(bob, id, ether(3)))

	idx := s.repo.Account(bob)
	s.Equal(uint64(2), idx.BidCount)
	s.Equal(uint64(1), idx.ActiveBidCount)
	s.Equal([]uint64{id}, idx.Bidding)
	s.Equal([]uint64{id}, idx.AuctionIdsBid)
	s.Equal(ether(997).String(), s.balance(bob).String())
	s.Equal(ether(3).String(), s.balance(s.auction.Address()).String())
}

func (s *nativeAuctionSuite) TestActiveBids() {
	first := s.listItem(owner, ether(1))
	second := s.listItem(owner, ether(1))

	s.Require().NoError(s.bid(bob, first, ether(2)))
	s.Require().NoError(s.bid(bob, second, ether(2)))
	idx := s.repo.Account(bob)
	s.Equal(uint64(2), idx.ActiveBidCount)
	s.Equal([]uint64{first, second}, idx.Bidding)

	s.Require().NoError(s.bid(carol, first, ether(3)))
	idx = s.repo.Account(bob)
	s.Equal(uint64(1), idx.ActiveBidCount)
	s.Equal([]uint64{second}, idx.Bidding)
	s.Equal([]uint64{first, second}, idx.AuctionIdsBid)
	s.Len(idx.ItemIdsBid, 2)

	bids, err := s.repo.FindAll(auction.WithBidder(bob))
	s.NoError(err)
	s.Require().Len(bids, 1)
	s.Equal(second, bids[0].Id)
}

func (s *nativeAuctionSuite) TestEndWithoutBids() {
	id := s.listItem(owner, ether(1))
	itemId := s.get(id).ItemId

	s.advance(6 * time.Second)
	_, err := s.exec(dave, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, id)
	})
	s.Require().NoError(err)
	s.Equal(auction.StatusEnded, s.get(id).Status)
	s.Equal(owner, s.ownerOf(itemId))
	s.Equal(ether(1000).String(), s.balance(owner).String())

	_, err = s.exec(dave, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, id)
	})
	s.True(errors.Is(err, domain.ErrAuctionNotActive))
	_, err = s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.CancelAuction(tx, id)
	})
	s.True(errors.Is(err, domain.ErrAuctionNotActive))
}

func (s *nativeAuctionSuite) TestCancel() {
	id := s.listItem(owner, ether(1))
	itemId := s.get(id).ItemId
	s.Require().NoError(s.bid(bob, id, ether(2)))

	_, err := s.exec(bob, nil, func(tx *ledger.Tx) error {
		return s.auction.CancelAuction(tx, id)
	})
	s.True(errors.Is(err, domain.ErrInvalidPermission))
	s.Equal("execution reverted: Auction: Invalid Permission", err.Error())

	r, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.CancelAuction(tx, id)
	})
	s.Require().NoError(err)
	last := r.Logs[len(r.Logs)-1]
	ev, err := abi.ToCancelAuctionLog(&last)
	s.Require().NoError(err)
	s.Equal(owner, ev.Sender)

	s.Equal(auction.StatusCanceled, s.get(id).Status)
	s.Equal(owner, s.ownerOf(itemId))
	s.Equal(ether(1000).String(), s.balance(bob).String())
	s.Equal(int64(0), s.balance(s.auction.Address()).Int64())
	idx := s.repo.Account(bob)
	s.Equal(uint64(0), idx.ActiveBidCount)
	s.Empty(idx.Bidding)
	s.Equal(uint64(1), idx.BidCount)

	s.True(errors.Is(s.bid(carol, id, ether(3)), domain.ErrAuctionNotActive))
}

func (s *nativeAuctionSuite) TestCancelAfterEnd() {
	id := s.listItem(owner, ether(1))
	s.advance(time.Minute)

	s.True(errors.Is(s.bid(bob, id, ether(2)), domain.ErrAuctionNotInProgress))
	_, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.CancelAuction(tx, id)
	})
	s.NoError(err)
}

func (s *nativeAuctionSuite) TestInvalidAuction() {
	s.True(errors.Is(s.bid(bob, 5, ether(2)), domain.ErrInvalidAuction))
	_, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.CancelAuction(tx, 5)
	})
	s.True(errors.Is(err, domain.ErrInvalidAuction))
	_, err = s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, 5)
	})
	s.True(errors.Is(err, domain.ErrInvalidAuction))
}

func (s *nativeAuctionSuite) TestCreateAuctionValidation() {
	var itemId *big.Int
	_, err := s.l.Execute(bg, ledger.Msg{From: owner, To: s.nft.Address()}, func(tx *ledger.Tx) error {
		var err error
		itemId, err = s.nft.MintTo(tx, owner)
		return err
	})
	s.Require().NoError(err)

	tests := []struct {
		desc string
		p    auction.CreateParams
		err  error
	}{
		{
			desc: "empty window",
			p:    auction.CreateParams{NftContract: s.nft.Address(), ItemId: itemId, Price: ether(1), Start: t0 + 5, End: t0 + 5},
			err:  domain.ErrInvalidPeriod,
		},
		{
			desc: "zero price",
			p:    auction.CreateParams{NftContract: s.nft.Address(), ItemId: itemId, Price: big.NewInt(0), Start: t0, End: t0 + 5},
			err:  domain.ErrInvalidPrice,
		},
		{
			desc: "unknown nft",
			p:    auction.CreateParams{NftContract: dave, ItemId: itemId, Price: ether(1), Start: t0, End: t0 + 5},
			err:  domain.ErrInvalidNftContract,
		},
		{
			desc: "not approved",
			p:    auction.CreateParams{NftContract: s.nft.Address(), ItemId: itemId, Price: ether(1), Start: t0, End: t0 + 5},
			err:  domain.ErrERC721NotOwnerNorApproved,
		},
	}
	for _, t := range tests {
		p := t.p
		_, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
			_, err := s.auction.CreateAuction(tx, &p)
			return err
		})
		s.True(errors.Is(err, t.err), t.desc)
	}
	s.Equal(uint64(0), s.repo.Count())
	s.Equal(owner, s.ownerOf(itemId))

	_, err = s.exec(owner, ether(1), func(tx *ledger.Tx) error {
		_, err := s.auction.CreateAuction(tx, &tests[0].p)
		return err
	})
	s.True(errors.Is(err, domain.ErrNotPayable))
}

func (s *nativeAuctionSuite) TestTransferOwnership() {
	_, err := s.exec(bob, nil, func(tx *ledger.Tx) error {
		return s.auction.TransferOwnership(tx, bob)
	})
	s.True(errors.Is(err, domain.ErrNotOwner))

	_, err = s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.TransferOwnership(tx, common.Address{})
	})
	s.True(errors.Is(err, domain.ErrZeroOwner))

	r, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.TransferOwnership(tx, bob)
	})
	s.Require().NoError(err)
	ev, err := abi.ToOwnershipTransferredLog(&r.Logs[0])
	s.Require().NoError(err)
	s.Equal(owner, ev.PreviousOwner)
	s.Equal(bob, ev.NewOwner)

	s.Equal(bob, s.repo.Config().Owner)
	s.True(errors.Is(s.setBidPricePercent(owner, 110), domain.ErrNotOwner))
	s.NoError(s.setBidPricePercent(bob, 110))
}
