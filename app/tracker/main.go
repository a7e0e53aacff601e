package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/nftauction/base/backoff"
	bCtx "github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/ethereum"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/tracker"
	bValidator "github.com/x-xyz/nftauction/base/validator"
	"github.com/x-xyz/nftauction/domain"
	mmiddleware "github.com/x-xyz/nftauction/middleware"
	"github.com/x-xyz/nftauction/service/query"
	activity_delivery "github.com/x-xyz/nftauction/stores/activity/delivery/http"
	activity_repository "github.com/x-xyz/nftauction/stores/activity/repository"
	activity_usecase "github.com/x-xyz/nftauction/stores/activity/usecase"
	hc_delivery "github.com/x-xyz/nftauction/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/nftauction/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/nftauction/stores/healthcheck/usecase"
	"github.com/x-xyz/nftauction/stores/tracker_state/repository/mongo"
	"github.com/x-xyz/nftauction/stores/tracker_state/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/tracker/config.yaml`)
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

	// overwrite active network in the config if the environment has been set
	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	ctxTimeout := viper.GetDuration("context.timeout")
	followDistance := viper.GetUint64("tracker.followDistance")
	pollInterval := viper.GetDuration("tracker.pollInterval")
	throttle := viper.GetInt("tracker.throttle")
	activeNetwork := viper.GetString("activeNetwork")

	network, err := domain.GetNetwork(activeNetwork)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "network": activeNetwork}).Panic("unknown network")
	}
	if sub := viper.Sub(fmt.Sprintf("networks.%s", activeNetwork)); sub != nil {
		if err := sub.Unmarshal(&network); err != nil {
			ctx.WithField("err", err).Panic("invalid network config")
		}
	}
	contractInfo := viper.Sub(fmt.Sprintf("contract.%s", activeNetwork))
	if contractInfo == nil {
		ctx.WithField("network", activeNetwork).Panic("no auction contract configured")
	}
	auctionContract := contractInfo.GetString("auction")
	if !common.IsHexAddress(auctionContract) {
		ctx.WithField("auction", auctionContract).Panic("invalid auction contract")
	}
	decimals := contractInfo.GetInt32("decimals")

	rpcUrl := network.WsUrl
	if rpcUrl == "" {
		rpcUrl = network.RpcUrl
	}
	ctx.WithFields(log.Fields{
		"network":  activeNetwork,
		"chainId":  network.ChainId,
		"rpcUrl":   rpcUrl,
		"contract": auctionContract,
	}).Info("config")

	ctx.Info("init mongo")
	mongoClient := initMongo(ctx)
	q := query.New(mongoClient)
	ctx.Info("connecting eth client")
	client := initEthClient(ctx, rpcUrl)
	defer client.Close()
	throttledClient := ethereum.NewThrottledClient(client, throttle)

	chainId := network.ChainId
	if chainId == 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			ctx.WithField("err", err).Panic("client.ChainID failed")
		}
		chainId = domain.ChainId(id.Int64())
	}

	activityUseCase := activity_usecase.NewActivityUseCase(activity_repository.NewActivityRepo(q))
	trackerStateUseCase := usecase.NewTrackerStateUseCase(mongo.NewTrackerStateMongoRepo(q), ctxTimeout)

	// serve health and the projected activities
	e := newEchoServer()
	hc_delivery.New(e, hc_usecase.New(hc_repo.New(throttledClient, mongoClient, nil)))
	activity_delivery.New(e, activityUseCase, chainId, domain.Address(auctionContract).ToLower())
	startEchoServer(ctx, e)

	done := tracker.Supervise(ctx, &tracker.EventTrackerCfg{
		ChainId:             chainId,
		Client:              throttledClient,
		TrackerStateUseCase: trackerStateUseCase,
		ContractAddress:     common.HexToAddress(auctionContract),
		EventHandl: tracker.NewAuctionEventHandler(&tracker.AuctionEventHandlerCfg{
			ChainId:         chainId,
			ActivityUseCase: activityUseCase,
			Decimals:        decimals,
		}),
		TrackerTag:     "auction",
		FollowDistance: followDistance,
		PollInterval:   pollInterval,
	}, backoff.NewExponential(time.Second, 5*time.Minute), 5*time.Minute)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	ctx.WithField("signal", sig).Info("received signal")
	cancel()
	<-done

	shutdownCtx, shutdownCancel := bCtx.WithTimeout(bCtx.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		ctx.WithField("err", err).Error("shutting down the server")
	}
}

func newEchoServer() *echo.Echo {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Validator = bValidator.NewCustomValidator(validator.New())
	return e
}

func startEchoServer(context bCtx.Ctx, e *echo.Echo) {
	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo(ctx bCtx.Ctx) *mongoclient.Client {
	cfg := &mongoclient.Config{}
	if err := viper.UnmarshalKey("mongo", cfg); err != nil {
		ctx.WithField("err", err).Panic("invalid mongo config")
	}
	return mongoclient.MustConnectMongoClient(cfg)
}

func initEthClient(ctx bCtx.Ctx, rpcUrl string) *ethclient.Client {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": rpcUrl,
		}).Panic("failed to connect rpc")
	}
	return client
}
