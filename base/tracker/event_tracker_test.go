package tracker

import (
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	activityMocks "github.com/x-xyz/nftauction/domain/activity/mocks"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/deployment"
	"github.com/x-xyz/nftauction/domain/mocks"
	auctionUseCase "github.com/x-xyz/nftauction/stores/auction/usecase"
	deploymentUseCase "github.com/x-xyz/nftauction/stores/deployment/usecase"
)

var owner = common.HexToAddress("0x00000000000000000000000000000000000000d0")

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), math.BigPow(10, 18))
}

func Test_getDeployedBlock(t *testing.T) {
	for _, tt := range []struct {
		deployedBlock uint64
		currentBlock  uint64
	}{
		{deployedBlock: 1, currentBlock: 1},
		{deployedBlock: 1, currentBlock: 9},
		{deployedBlock: 4, currentBlock: 9},
		{deployedBlock: 5, currentBlock: 9},
		{deployedBlock: 9, currentBlock: 9},
		{deployedBlock: 6, currentBlock: 16},
	} {
		t.Run(fmt.Sprintf("%d/%d", tt.deployedBlock, tt.currentBlock), func(t *testing.T) {
			req := require.New(t)
			c := ctx.Background()
			l := ledger.New(&ledger.Config{ChainId: 1337})
			defer l.Close()

			var addr common.Address
			for i := uint64(1); i <= tt.currentBlock; i++ {
				_, err := l.Execute(c, ledger.Msg{From: owner}, func(tx *ledger.Tx) error {
					if i == tt.deployedBlock {
						addr = tx.Deploy("auction")
					}
					return nil
				})
				req.NoError(err)
			}

			blk, err := getDeployedBlock(c, l, addr)
			req.NoError(err)
			req.Equal(tt.deployedBlock, blk)
		})
	}
}

func TestEventTracker_setupTrackerState(t *testing.T) {
	contractAddr := common.BigToAddress(big.NewInt(1))
	id := &domain.TrackerStateId{
		ChainId:         1337,
		ContractAddress: domain.ToAddress(contractAddr),
		Tag:             domain.DefaultTag,
	}

	t.Run("exists in repo", func(t *testing.T) {
		req := require.New(t)
		trackerStateUseCase := new(mocks.TrackerStateUseCase)
		f := &EventTracker{
			chainId:             1337,
			trackerStateUseCase: trackerStateUseCase,
			contractAddress:     contractAddr,
			trackerTag:          domain.DefaultTag,
		}

		state := domain.NewTrackerState(id, Version, 20)
		trackerStateUseCase.On("Get", mock.Anything, id).Return(state, nil)

		got, err := f.setupTrackerState(ctx.Background())
		req.NoError(err)
		req.Equal(state, got)
	})

	t.Run("unknown version", func(t *testing.T) {
		req := require.New(t)
		trackerStateUseCase := new(mocks.TrackerStateUseCase)
		f := &EventTracker{
			chainId:             1337,
			trackerStateUseCase: trackerStateUseCase,
			contractAddress:     contractAddr,
			trackerTag:          domain.DefaultTag,
		}

		trackerStateUseCase.On("Get", mock.Anything, id).Return(domain.NewTrackerState(id, Version+1, 20), nil)

		_, err := f.setupTrackerState(ctx.Background())
		req.Error(err)
	})

	t.Run("start from deployed block", func(t *testing.T) {
		req := require.New(t)
		c := ctx.Background()
		l := ledger.New(&ledger.Config{ChainId: 1337})
		defer l.Close()
		for i := 0; i < 3; i++ {
			_, err := l.Execute(c, ledger.Msg{From: owner}, func(tx *ledger.Tx) error { return nil })
			req.NoError(err)
		}
		var addr common.Address
		_, err := l.Execute(c, ledger.Msg{From: owner}, func(tx *ledger.Tx) error {
			addr = tx.Deploy("auction")
			return nil
		})
		req.NoError(err)

		addrId := &domain.TrackerStateId{ChainId: 1337, ContractAddress: domain.ToAddress(addr), Tag: domain.DefaultTag}
		want := domain.NewTrackerState(addrId, Version, 4)
		trackerStateUseCase := new(mocks.TrackerStateUseCase)
		trackerStateUseCase.On("Get", mock.Anything, addrId).Return(nil, domain.ErrNotFound)
		trackerStateUseCase.On("Store", mock.Anything, want).Return(nil)
		f := &EventTracker{
			chainId:             1337,
			client:              l,
			trackerStateUseCase: trackerStateUseCase,
			contractAddress:     addr,
			trackerTag:          domain.DefaultTag,
		}

		got, err := f.setupTrackerState(c)
		req.NoError(err)
		req.Equal(want, got)
		trackerStateUseCase.AssertExpectations(t)
	})
}

type eventTrackerSuite struct {
	suite.Suite

	c      ctx.Ctx
	cancel func()
	clock  *ledger.ManualClock
	l      *ledger.Ledger
	d      *deployment.Deployment
	au     auction.UseCase

	states *mocks.TrackerStateUseCase
	acts   *activityMocks.UseCase

	mu        sync.Mutex
	projected []*activity.Activity
	lastState domain.TrackerState
}

func TestEventTrackerSuite(t *testing.T) {
	suite.Run(t, new(eventTrackerSuite))
}

func (s *eventTrackerSuite) SetupTest() {
	s.c, s.cancel = ctx.WithCancel(ctx.Background())
	s.clock = ledger.NewManualClock(time.Unix(1600000000, 0))
	s.l = ledger.New(&ledger.Config{
		ChainId: 1337,
		Clock:   s.clock,
		Alloc: map[common.Address]*big.Int{
			bob:   ether(100),
			carol: ether(100),
		},
	})
	d, err := deploymentUseCase.NewDeploymentUseCase(s.l).Deploy(s.c, owner, &deployment.Config{
		Variant: auction.VariantNative,
	})
	s.Require().NoError(err)
	s.d = d
	s.au = auctionUseCase.NewAuctionUseCase(&auctionUseCase.AuctionUseCaseCfg{
		Ledger:   s.l,
		Contract: d.Auction,
		Repo:     d.Repo,
	})

	s.projected = nil
	s.states = &mocks.TrackerStateUseCase{}
	s.states.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.states.On("Store", mock.Anything, mock.Anything).Return(nil)
	s.states.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.lastState = *args.Get(1).(*domain.TrackerState)
		}).
		Return(nil)

	s.acts = &activityMocks.UseCase{}
	s.acts.On("Project", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.projected = append(s.projected, args.Get(1).([]*activity.Activity)...)
		}).
		Return(nil)
}

func (s *eventTrackerSuite) TearDownTest() {
	s.cancel()
	s.l.Close()
}

func (s *eventTrackerSuite) list(price *big.Int) uint64 {
	var itemId *big.Int
	_, err := s.l.Execute(s.c, ledger.Msg{From: owner, To: s.d.Addresses.Nft}, func(tx *ledger.Tx) error {
		var err error
		if itemId, err = s.d.Nft.MintTo(tx, owner); err != nil {
			return err
		}
		return s.d.Nft.Approve(tx, s.d.Addresses.Auction, itemId)
	})
	s.Require().NoError(err)

	now := s.l.Now()
	id, _, err := s.au.CreateAuction(s.c, owner, &auction.CreateParams{
		NftContract: s.d.Addresses.Nft,
		ItemId:      itemId,
		Price:       price,
		Start:       now,
		End:         now + 10,
	})
	s.Require().NoError(err)
	return id
}

func (s *eventTrackerSuite) projectedTypes() []activity.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := []activity.Type{}
	for _, a := range s.projected {
		res = append(res, a.Type)
	}
	return res
}

func (s *eventTrackerSuite) TestFollow() {
	id := s.list(ether(1))
	_, err := s.au.Bid(s.c, bob, id, ether(2))
	s.Require().NoError(err)
	_, err = s.au.Bid(s.c, carol, id, ether(3))
	s.Require().NoError(err)
	s.clock.Advance(11 * time.Second)
	_, err = s.au.EndAuction(s.c, bob, id)
	s.Require().NoError(err)

	errCh := make(chan error, 1)
	f, err := NewEventTracker(&EventTrackerCfg{
		ChainId:             1337,
		Client:              s.l,
		TrackerStateUseCase: s.states,
		ContractAddress:     s.d.Addresses.Auction,
		EventHandl: NewAuctionEventHandler(&AuctionEventHandlerCfg{
			ChainId:         1337,
			ActivityUseCase: s.acts,
		}),
		ErrorCh:      errCh,
		PollInterval: 10 * time.Millisecond,
	})
	s.Require().NoError(err)
	f.Start(s.c)

	s.Require().Eventually(func() bool {
		return len(s.projectedTypes()) == 6
	}, 5*time.Second, 10*time.Millisecond)
	s.Equal([]activity.Type{
		activity.TypeCreateAuction,
		activity.TypePlaceBid,
		activity.TypeBidRefunded,
		activity.TypePlaceBid,
		activity.TypeResultAuction,
		activity.TypeWonAuction,
	}, s.projectedTypes())

	s.mu.Lock()
	won := s.projected[5]
	s.mu.Unlock()
	s.Equal(domain.ToAddress(carol), won.Account)
	s.Equal("3", won.DisplayPrice)
	s.Equal(id, won.AuctionId)

	// logs after the catch up come through the subscription
	next := s.list(ether(1))
	s.Require().Eventually(func() bool {
		return len(s.projectedTypes()) == 7
	}, 5*time.Second, 10*time.Millisecond)

	head := s.l.Head().Number.Uint64()
	s.Require().Eventually(func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.lastState.LastBlockProcessed == head+1
	}, 5*time.Second, 10*time.Millisecond)

	s.mu.Lock()
	created := s.projected[6]
	s.mu.Unlock()
	s.Equal(activity.TypeCreateAuction, created.Type)
	s.Equal(next, created.AuctionId)

	s.cancel()
	f.Wait()
	select {
	case err := <-errCh:
		s.Fail("tracker failed", err)
	default:
	}
}
