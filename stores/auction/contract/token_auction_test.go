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

type tokenAuctionSuite struct {
	world
}

func TestTokenAuctionSuite(t *testing.T) {
	suite.Run(t, new(tokenAuctionSuite))
}

func (s *tokenAuctionSuite) SetupTest() {
	s.setup(auction.VariantToken, 105)
}

func (s *tokenAuctionSuite) TearDownTest() {
	s.l.Close()
}

func (s *tokenAuctionSuite) TestConfig() {
	cfg := s.repo.Config()
	s.Equal(owner, cfg.Owner)
	s.Equal(uint64(105), cfg.BidPricePercent)
	s.Equal(s.token.Address(), cfg.Token)
	s.Equal(auction.VariantToken, cfg.Variant)
	s.Equal(uint64(0), cfg.AuctionCount)
}

func (s *tokenAuctionSuite) TestScenario() {
	id := s.listItem(seller, big.NewInt(10))
	s.Equal(uint64(0), id)
	s.Equal(uint64(1), s.repo.Count())
	a := s.get(id)
	s.Equal(s.auction.Address(), s.ownerOf(a.ItemId))
	s.Equal(auction.StatusNormal, a.Status)
	s.Equal(common.Address{}, a.Bidder)

	s.Require().NoError(s.bid(bob, id, ether(10)))
	s.Equal(ether(990).String(), s.balance(bob).String())
	s.Equal(ether(10).String(), s.balance(s.auction.Address()).String())

	err := s.bid(carol, id, ether(1))
	s.True(errors.Is(err, domain.ErrPriceIsLow))
	s.Equal("execution reverted: Auction: Price is low", err.Error())

	_, err = s.exec(carol, nil, func(tx *ledger.Tx) error {
		return s.auction.SetBidPricePercent(tx, 110)
	})
	s.True(errors.Is(err, domain.ErrNotOwner))
	_, err = s.exec(owner, nil, func(tx *ledger.Tx) error {
		return s.auction.SetBidPricePercent(tx, 110)
	})
	s.Require().NoError(err)
	s.Equal(uint64(110), s.repo.Config().BidPricePercent)

	s.Require().NoError(s.bid(carol, id, ether(100)))
	s.Equal(ether(1000).String(), s.balance(bob).String())
	s.Equal(ether(900).String(), s.balance(carol).String())
	s.Equal(ether(100).String(), s.balance(s.auction.Address()).String())

	_, err = s.exec(dave, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, id)
	})
	s.True(errors.Is(err, domain.ErrAuctionNotEnded))

	s.advance(7 * time.Second)
	r, err := s.exec(dave, nil, func(tx *ledger.Tx) error {
		return s.auction.EndAuction(tx, id)
	})
	s.Require().NoError(err)

	s.Equal(ether(100).String(), s.balance(seller).String())
	s.Equal(int64(0), s.balance(s.auction.Address()).Int64())
	s.Equal(carol, s.ownerOf(a.ItemId))
	s.Equal(auction.StatusEnded, s.get(id).Status)

	last := r.Logs[len(r.Logs)-1]
	ev, err := abi.ToEndAuctionLog(&last)
	s.Require().NoError(err)
	s.Equal(dave, ev.Sender)
	s.Equal(uint64(0), ev.AuctionId.Uint64())

	won := s.repo.Account(carol)
	s.Equal([]uint64{0}, won.AuctionIdsWon)
	s.Require().Len(won.ItemIdsWon, 1)
	s.Equal(a.ItemId.String(), won.ItemIdsWon[0].String())
	s.Empty(won.Bidding)
	s.Equal(uint64(1), won.BidCount)
	s.Equal(uint64(0), won.ActiveBidCount)

	lost := s.repo.Account(bob)
	s.Equal(uint64(1), lost.BidCount)
	s.Equal(uint64(0), lost.ActiveBidCount)
	s.Equal([]uint64{0}, lost.AuctionIdsBid)
	s.Empty(lost.Bidding)
	s.Empty(lost.AuctionIdsWon)

	s.Equal(uint64(2), s.repo.BidCount())
	s.Equal([]uint64{0, 1}, s.repo.Activities(id))
	b, err := s.repo.GetBid(1)
	s.NoError(err)
	s.Equal(carol, b.Bidder)
	s.Equal(ether(100).String(), b.Price.String())
}

func (s *tokenAuctionSuite) TestBidRejectsValue() {
	id := s.listItem(seller, big.NewInt(10))
	_, err := s.exec(bob, ether(1), func(tx *ledger.Tx) error {
		return s.auction.Bid(tx, id, ether(10))
	})
	s.True(errors.Is(err, domain.ErrNotPayable))
	s.Equal(ether(1000).String(), s.l.Balance(bob).String())
}

func (s *tokenAuctionSuite) TestBidWithoutAllowance() {
	id := s.listItem(seller, big.NewInt(10))
	err := s.bid(dave, id, ether(10))
	s.True(errors.Is(err, domain.ErrERC20InsufficientAllowance))
	s.Equal(uint64(0), s.repo.BidCount())
	s.Equal(uint64(0), s.repo.Account(dave).BidCount)
	s.False(s.get(id).HasBidder())
}

func (s *tokenAuctionSuite) TestBidPricePercentUnbounded() {
	for _, pct := range []uint64{100, 121, 300} {
		_, err := s.exec(owner, nil, func(tx *ledger.Tx) error {
			return s.auction.SetBidPricePercent(tx, pct)
		})
		s.NoError(err)
		s.Equal(pct, s.repo.Config().BidPricePercent)
	}
}

func (s *tokenAuctionSuite) TestMinimumBid() {
	id := s.listItem(seller, big.NewInt(10))
	min, err := s.auction.MinimumBid(id)
	s.NoError(err)
	s.Equal(int64(11), min.Int64())

	s.Require().NoError(s.bid(bob, id, big.NewInt(1000)))
	min, err = s.auction.MinimumBid(id)
	s.NoError(err)
	s.Equal(int64(1050), min.Int64())

	s.True(errors.Is(s.bid(carol, id, big.NewInt(1049)), domain.ErrPriceIsLow))
	s.NoError(s.bid(carol, id, big.NewInt(1050)))

	_, err = s.auction.MinimumBid(9)
	s.Equal(domain.ErrInvalidAuction, err)
}

func (s *tokenAuctionSuite) TestCreateAuctionEmitsEvent() {
	var itemId *big.Int
	_, err := s.l.Execute(bg, ledger.Msg{From: owner, To: s.nft.Address()}, func(tx *ledger.Tx) error {
		var err error
		itemId, err = s.nft.MintTo(tx, seller)
		return err
	})
	s.Require().NoError(err)
	_, err = s.l.Execute(bg, ledger.Msg{From: seller, To: s.nft.Address()}, func(tx *ledger.Tx) error {
		return s.nft.Approve(tx, s.auction.Address(), itemId)
	})
	s.Require().NoError(err)

	r, err := s.exec(seller, nil, func(tx *ledger.Tx) error {
		_, err := s.auction.CreateAuction(tx, &auction.CreateParams{
			NftContract: s.nft.Address(),
			ItemId:      itemId,
			Price:       big.NewInt(500),
			Start:       t0 + 10,
			End:         t0 + 20,
		})
		return err
	})
	s.Require().NoError(err)

	var found bool
	for i := range r.Logs {
		if r.Logs[i].Topics[0] != abi.AuctionCreateAuctionID {
			continue
		}
		ev, err := abi.ToCreateAuctionLog(&r.Logs[i])
		s.Require().NoError(err)
		s.Equal(seller, ev.Seller)
		s.Equal(s.nft.Address(), ev.NftContract)
		s.Equal(itemId.String(), ev.ItemId.String())
		s.Equal(int64(500), ev.Price.Int64())
		s.Equal(uint64(t0+10), ev.Start.Uint64())
		s.Equal(uint64(t0+20), ev.End.Uint64())
		found = true
	}
	s.True(found)

	// not started yet
	s.True(errors.Is(s.bid(bob, 0, big.NewInt(1000)), domain.ErrAuctionNotInProgress))
}
