package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	"github.com/x-xyz/nftauction/service/query"
)

const (
	auctionAddr = domain.Address("0x1000000000000000000000000000000000000001")
	bob         = domain.Address("0x0000000000000000000000000000000000000b0b")
	carol       = domain.Address("0x00000000000000000000000000000000000ca201")
)

// activitySuite runs against a local mongo, it is skipped when none is reachable
type activitySuite struct {
	suite.Suite

	q    query.Mongo
	repo activity.Repo
}

func TestActivitySuite(t *testing.T) {
	suite.Run(t, new(activitySuite))
}

func (s *activitySuite) SetupSuite() {
	client, err := mongoclient.ConnectMongoClient(&mongoclient.Config{
		Uri:        "mongodb://localhost:27017/?connectTimeoutMS=1000&serverSelectionTimeoutMS=1000",
		AuthDBName: "admin",
		DbName:     "nftauction_test",
	})
	if err != nil {
		s.T().Skip("mongo is not available")
	}
	s.q = query.New(client)
	s.repo = NewActivityRepo(s.q)
}

func (s *activitySuite) SetupTest() {
	c := ctx.Background()
	_, err := s.q.RemoveAll(c, domain.TableAuctionActivities, bson.M{})
	s.Require().NoError(err)
	_, err = s.q.RemoveAll(c, domain.TableAuctionAccountInfo, bson.M{})
	s.Require().NoError(err)
}

func (s *activitySuite) newActivity(typ activity.Type, account domain.Address, block, index int64) *activity.Activity {
	return &activity.Activity{
		ChainId:         1337,
		ContractAddress: auctionAddr,
		AuctionId:       0,
		Type:            typ,
		Account:         account,
		Price:           "1000000000000000000",
		DisplayPrice:    "1",
		BlockNumber:     domain.BlockNumber(block),
		TxHash:          domain.TxHash(fmt.Sprintf("0x%x", block)),
		LogIndex:        index,
		Time:            time.Unix(1600000000, 0).UTC(),
	}
}

func (s *activitySuite) TestUpsertAndFind() {
	c := ctx.Background()

	s.Require().NoError(s.repo.Upsert(c, s.newActivity(activity.TypePlaceBid, bob, 1, 0)))
	s.Require().NoError(s.repo.Upsert(c, s.newActivity(activity.TypePlaceBid, carol, 2, 0)))
	s.Require().NoError(s.repo.Upsert(c, s.newActivity(activity.TypeBidRefunded, bob, 2, 0)))
	// replay
	s.Require().NoError(s.repo.Upsert(c, s.newActivity(activity.TypePlaceBid, bob, 1, 0)))

	all, err := s.repo.FindAll(c, activity.WithContract(auctionAddr))
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal(domain.BlockNumber(2), all[0].BlockNumber)

	bobs, err := s.repo.FindAll(c, activity.WithAccount(bob), activity.WithTypes(activity.TypePlaceBid))
	s.Require().NoError(err)
	s.Require().Len(bobs, 1)
	s.Equal(domain.BlockNumber(1), bobs[0].BlockNumber)

	cnt, err := s.repo.Count(c, activity.WithTypes(activity.TypePlaceBid, activity.TypeBidRefunded))
	s.Require().NoError(err)
	s.Equal(3, cnt)

	earlier, err := s.repo.FindAll(c, activity.WithContract(auctionAddr), activity.WithBefore(2, 0))
	s.Require().NoError(err)
	s.Require().Len(earlier, 1)
	s.Equal(bob, earlier[0].Account)
}

func (s *activitySuite) TestSummaries() {
	c := ctx.Background()
	id := &activity.SummaryId{ChainId: 1337, ContractAddress: auctionAddr, Account: bob}

	_, err := s.repo.GetSummary(c, id)
	s.Equal(domain.ErrNotFound, err)

	s.Require().NoError(s.repo.UpsertSummaries(c, []*activity.AccountSummary{
		{ChainId: 1337, ContractAddress: auctionAddr, Account: bob, Bids: 1, BidVolume: "1"},
	}))
	s.Require().NoError(s.repo.UpsertSummaries(c, []*activity.AccountSummary{
		{ChainId: 1337, ContractAddress: auctionAddr, Account: bob, Bids: 2, BidVolume: "3"},
	}))

	res, err := s.repo.GetSummary(c, id)
	s.Require().NoError(err)
	s.Equal(int64(2), res.Bids)
	s.Equal("3", res.BidVolume)
}
