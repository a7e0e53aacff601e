package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
)

func TestMakeFindQueryBefore(t *testing.T) {
	req := require.New(t)
	qry, err := makeFindQuery(activity.WithAuctionId(3), activity.WithBefore(12, 4))
	req.NoError(err)
	req.Equal(bson.M{
		"auctionId": uint64(3),
		"$or": bson.A{
			bson.M{"blockNumber": bson.M{"$lt": domain.BlockNumber(12)}},
			bson.M{"blockNumber": domain.BlockNumber(12), "logIndex": bson.M{"$lt": int64(4)}},
		},
	}, qry)
}
