package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/x-xyz/nftauction/base/backoff"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/database/redisclient"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/base/tracker"
	bValidator "github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/deployment"
	mmiddleware "github.com/x-xyz/nftauction/middleware"
	"github.com/x-xyz/nftauction/service/cache/provider"
	"github.com/x-xyz/nftauction/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/nftauction/service/cache/provider/redis"
	"github.com/x-xyz/nftauction/service/query"
	"github.com/x-xyz/nftauction/service/redis"
	activity_delivery "github.com/x-xyz/nftauction/stores/activity/delivery/http"
	activity_repository "github.com/x-xyz/nftauction/stores/activity/repository"
	activity_usecase "github.com/x-xyz/nftauction/stores/activity/usecase"
	auction_delivery "github.com/x-xyz/nftauction/stores/auction/delivery/http"
	auction_usecase "github.com/x-xyz/nftauction/stores/auction/usecase"
	chain_delivery "github.com/x-xyz/nftauction/stores/chain/delivery/http"
	chain_usecase "github.com/x-xyz/nftauction/stores/chain/usecase"
	deployment_usecase "github.com/x-xyz/nftauction/stores/deployment/usecase"
	erc20_delivery "github.com/x-xyz/nftauction/stores/erc20/delivery/http"
	erc20_usecase "github.com/x-xyz/nftauction/stores/erc20/usecase"
	erc721_delivery "github.com/x-xyz/nftauction/stores/erc721/delivery/http"
	erc721_usecase "github.com/x-xyz/nftauction/stores/erc721/usecase"
	hc_delivery "github.com/x-xyz/nftauction/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/nftauction/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/nftauction/stores/healthcheck/usecase"
	tracker_state_repository "github.com/x-xyz/nftauction/stores/tracker_state/repository/mongo"
	tracker_state_usecase "github.com/x-xyz/nftauction/stores/tracker_state/usecase"

	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/x-xyz/nftauction/app/api/docs"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
	if level := viper.GetString("log.level"); level != "" {
		if err := log.SetLevel(level); err != nil {
			log.Log().WithField("err", err).Warn("invalid log level")
		}
	}

	// overwrite the deployed network if the environment has been set
	viper.BindEnv("deployment.network", "ACTIVENETWORK")
}

//	@title			NFT Auction API
//	@version		1.0
//	@description	HTTP surface of the in-process auction ledger.
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()
	ctxTimeout := viper.GetDuration("context.timeout")

	// init ledger
	chainId := viper.GetInt64("ledger.chainId")
	deployer := common.HexToAddress(viper.GetString("ledger.deployer"))
	clock := ledger.NewOffsetClock()
	l := ledger.New(&ledger.Config{
		ChainId: chainId,
		Clock:   clock,
		Alloc:   mustAlloc(context, deployer),
	})
	defer l.Close()

	// deploy contracts
	deployCfg := &deployment.Config{}
	if err := viper.UnmarshalKey("deployment", deployCfg); err != nil {
		context.WithField("err", err).Panic("invalid deployment config")
	}
	dep, err := deployment_usecase.NewDeploymentUseCase(l).Deploy(context, deployer, deployCfg)
	if err != nil {
		context.WithField("err", err).Panic("deployment failed")
	}

	// init optional stores
	var mongoClient *mongoclient.Client
	mongoCfg := &mongoclient.Config{}
	if err := viper.UnmarshalKey("mongo", mongoCfg); err != nil {
		context.WithField("err", err).Panic("invalid mongo config")
	}
	if mongoCfg.Uri != "" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(mongoCfg)
	}

	var redisCache redis.Service
	providers := []provider.Provider{
		primitive.NewPrimitive("http", viper.GetInt("cache.sizeMB")),
	}
	if uri := viper.GetString("redis.uri"); uri != "" {
		context.Info("init redis cache")
		name := viper.GetString("redis.name")
		pool := redisclient.MustConnectRedis(uri, viper.GetString("redis.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(name, metrics.New(name), pool)
		providers = append(providers, redisProvider.NewRedis(redisCache))
	}
	e.Use(mmiddleware.CacheHttp(viper.GetDuration("cache.ttl"), func() uint64 {
		return l.Head().Number.Uint64()
	}, providers...))

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(l, mongoClient, redisCache)
	hc := hc_usecase.New(hcRepo)
	auctionUseCase := auction_usecase.NewAuctionUseCase(&auction_usecase.AuctionUseCaseCfg{
		Ledger:   l,
		Contract: dep.Auction,
		Repo:     dep.Repo,
	})
	nftUseCase := erc721_usecase.NewNftUseCase(&erc721_usecase.NftUseCaseCfg{
		Ledger:   l,
		Contract: dep.Nft,
		Registry: dep.Registry,
	})
	chainUseCase := chain_usecase.NewChainUseCase(&chain_usecase.ChainUseCaseCfg{
		Ledger: l,
		Clock:  clock,
	})

	hc_delivery.New(e, hc)
	auction_delivery.New(e, auctionUseCase)
	erc721_delivery.New(e, nftUseCase)
	chain_delivery.New(e, chainUseCase)
	if dep.Token != nil {
		erc20_delivery.New(e, erc20_usecase.NewTokenUseCase(&erc20_usecase.TokenUseCaseCfg{
			Ledger:   l,
			Contract: dep.Token,
		}))
	}

	var trackerDone <-chan struct{}
	if mongoClient != nil {
		q := query.New(mongoClient)
		activityUseCase := activity_usecase.NewActivityUseCase(activity_repository.NewActivityRepo(q))
		activity_delivery.New(e, activityUseCase, domain.ChainId(chainId), domain.ToAddress(dep.Addresses.Auction))

		if viper.GetBool("tracker.enabled") {
			trackerStateUseCase := tracker_state_usecase.NewTrackerStateUseCase(
				tracker_state_repository.NewTrackerStateMongoRepo(q),
				ctxTimeout,
			)
			decimals := int32(18)
			if dep.Variant == auction.VariantToken {
				decimals = int32(deployCfg.Token.Decimals)
			}
			trackerDone = tracker.Supervise(context, &tracker.EventTrackerCfg{
				ChainId:             domain.ChainId(chainId),
				Client:              l,
				TrackerStateUseCase: trackerStateUseCase,
				ContractAddress:     dep.Addresses.Auction,
				EventHandl: tracker.NewAuctionEventHandler(&tracker.AuctionEventHandlerCfg{
					ChainId:         domain.ChainId(chainId),
					ActivityUseCase: activityUseCase,
					Decimals:        decimals,
				}),
				TrackerTag:     "auction",
				FollowDistance: viper.GetUint64("tracker.followDistance"),
				PollInterval:   viper.GetDuration("tracker.pollInterval"),
			}, backoff.NewExponential(time.Second, time.Minute), time.Minute)
		}
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	context.WithFields(log.Fields{
		"network": dep.Network,
		"variant": dep.Variant,
		"auction": dep.Addresses.Auction,
		"nft":     dep.Addresses.Nft,
		"token":   dep.Addresses.Token,
	}).Info("ledger ready")

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, shutdownCancel := ctx.WithTimeout(context, 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	cancel()
	if trackerDone != nil {
		<-trackerDone
	}
}

// mustAlloc funds the deployer and the configured accounts, balances are in ether
func mustAlloc(c ctx.Ctx, deployer common.Address) map[common.Address]*big.Int {
	alloc := map[common.Address]*big.Int{}
	balance, err := decimal.NewFromString(viper.GetString("ledger.balance"))
	if err != nil {
		c.WithField("err", err).Panic("invalid ledger balance")
	}
	wei := balance.Shift(18).BigInt()
	alloc[deployer] = wei
	for _, addr := range viper.GetStringSlice("ledger.accounts") {
		if !common.IsHexAddress(addr) {
			c.WithField("address", addr).Panic("invalid ledger account")
		}
		alloc[common.HexToAddress(addr)] = new(big.Int).Set(wei)
	}
	return alloc
}
