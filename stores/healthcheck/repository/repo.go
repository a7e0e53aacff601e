package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/domain"
	hcdomain "github.com/x-xyz/nftauction/domain/healthcheck"
	"github.com/x-xyz/nftauction/domain/keys"
	"github.com/x-xyz/nftauction/service/redis"
)

type impl struct {
	chain      domain.ChainReader
	mgoClient  *mongoclient.Client
	redisCache redis.Service
}

// New checks the chain, mongo and redis are reachable. mgoClient and
// redisCache are optional.
func New(
	chain domain.ChainReader,
	mgoClient *mongoclient.Client,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		chain:      chain,
		mgoClient:  mgoClient,
		redisCache: redisCache,
	}
}

func (im *impl) PingChain(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if _, err := im.chain.BlockNumber(ctx); err != nil {
		context.WithField("err", err).Error("chain.BlockNumber failed")
		return err
	}
	return nil
}

func (im *impl) PingDB(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if im.mgoClient != nil {
		if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
			context.WithField("err", err).Error("ping mongo error")
			return err
		}
	}

	if im.redisCache != nil {
		if err := im.redisCache.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
			context.WithField("err", err).Error("test redis set failed")
			return err
		}
	}
	return nil
}
