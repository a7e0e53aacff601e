package usecase

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	"github.com/x-xyz/nftauction/domain/activity/mocks"
)

const (
	auctionAddr = domain.Address("0x1000000000000000000000000000000000000001")
	bob         = domain.Address("0x0000000000000000000000000000000000000b0b")
	carol       = domain.Address("0x00000000000000000000000000000000000ca201")
)

type activityUseCaseSuite struct {
	suite.Suite

	repo *mocks.Repo
	uc   activity.UseCase
}

func TestActivityUseCaseSuite(t *testing.T) {
	suite.Run(t, new(activityUseCaseSuite))
}

func (s *activityUseCaseSuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.uc = NewActivityUseCase(s.repo)
}

func newActivity(typ activity.Type, account domain.Address, price string, sec int64) *activity.Activity {
	return &activity.Activity{
		ChainId:         1337,
		ContractAddress: auctionAddr,
		Type:            typ,
		Account:         account,
		Price:           price,
		Time:            time.Unix(sec, 0),
	}
}

func (s *activityUseCaseSuite) TestProject() {
	c := ctx.Background()
	activities := []*activity.Activity{
		newActivity(activity.TypePlaceBid, bob, "10", 100),
		newActivity(activity.TypePlaceBid, carol, "20", 101),
		newActivity(activity.TypeBidRefunded, bob, "10", 101),
		newActivity(activity.TypeWonAuction, carol, "20", 102),
	}

	s.repo.On("Upsert", c, mock.Anything).Return(nil).Times(4)
	s.repo.On("GetSummary", c, &activity.SummaryId{ChainId: 1337, ContractAddress: auctionAddr, Account: bob}).
		Return(&activity.AccountSummary{
			ChainId:         1337,
			ContractAddress: auctionAddr,
			Account:         bob,
			Bids:            1,
			BidVolume:       "5",
			SoldVolume:      "0",
		}, nil)
	s.repo.On("GetSummary", c, &activity.SummaryId{ChainId: 1337, ContractAddress: auctionAddr, Account: carol}).
		Return(nil, domain.ErrNotFound)

	var upserted []*activity.AccountSummary
	s.repo.On("UpsertSummaries", c, mock.Anything).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).([]*activity.AccountSummary)
		}).
		Return(nil)

	s.Require().NoError(s.uc.Project(c, activities))
	s.repo.AssertExpectations(s.T())

	s.Require().Len(upserted, 2)
	sort.Slice(upserted, func(i, j int) bool { return upserted[i].Account < upserted[j].Account })

	b := upserted[0]
	s.Equal(bob, b.Account)
	s.Equal(int64(2), b.Bids)
	s.Equal(int64(1), b.Refunds)
	s.Equal("15", b.BidVolume)
	s.Equal(time.Unix(101, 0), b.LastActivity)

	cr := upserted[1]
	s.Equal(carol, cr.Account)
	s.Equal(int64(1), cr.Bids)
	s.Equal(int64(1), cr.Wins)
	s.Equal("20", cr.BidVolume)
	s.Equal("0", cr.SoldVolume)
}

func (s *activityUseCaseSuite) TestProjectSeller() {
	c := ctx.Background()
	activities := []*activity.Activity{
		newActivity(activity.TypeCreateAuction, bob, "1", 100),
		newActivity(activity.TypeResultAuction, bob, "30", 110),
		newActivity(activity.TypeCreateAuction, bob, "1", 111),
		newActivity(activity.TypeResultAuction, bob, "0", 120),
		newActivity(activity.TypeCreateAuction, bob, "1", 121),
		newActivity(activity.TypeCancelAuction, bob, "0", 122),
	}

	s.repo.On("Upsert", c, mock.Anything).Return(nil)
	s.repo.On("GetSummary", c, mock.Anything).Return(nil, domain.ErrNotFound)
	var upserted []*activity.AccountSummary
	s.repo.On("UpsertSummaries", c, mock.Anything).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).([]*activity.AccountSummary)
		}).
		Return(nil)

	s.Require().NoError(s.uc.Project(c, activities))
	s.Require().Len(upserted, 1)
	s.Equal(int64(3), upserted[0].Created)
	s.Equal(int64(1), upserted[0].Sold)
	s.Equal(int64(1), upserted[0].Canceled)
	s.Equal("30", upserted[0].SoldVolume)
}

func (s *activityUseCaseSuite) TestProjectRepoError() {
	c := ctx.Background()
	failure := errors.New("failure")

	s.repo.On("Upsert", c, mock.Anything).Return(nil)
	s.repo.On("GetSummary", c, mock.Anything).Return(nil, failure)

	err := s.uc.Project(c, []*activity.Activity{newActivity(activity.TypePlaceBid, bob, "1", 1)})
	s.Equal(failure, err)
	s.repo.AssertNotCalled(s.T(), "UpsertSummaries", mock.Anything, mock.Anything)
}

func (s *activityUseCaseSuite) TestProjectEmpty() {
	s.NoError(s.uc.Project(ctx.Background(), nil))
	s.repo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *activityUseCaseSuite) TestFindAll() {
	c := ctx.Background()
	res := []*activity.Activity{newActivity(activity.TypePlaceBid, bob, "1", 1)}
	s.repo.On("FindAll", c, mock.Anything).Return(res, nil)
	s.repo.On("Count", c, mock.Anything).Return(7, nil)

	got, cnt, err := s.uc.FindAll(c, activity.WithAccount(bob))
	s.Require().NoError(err)
	s.Equal(res, got)
	s.Equal(7, cnt)
}
