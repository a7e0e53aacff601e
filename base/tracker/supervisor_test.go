package tracker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftauction/base/backoff"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	activityMocks "github.com/x-xyz/nftauction/domain/activity/mocks"
	"github.com/x-xyz/nftauction/domain/mocks"
)

func TestSupervise(t *testing.T) {
	req := require.New(t)
	l := ledger.New(&ledger.Config{ChainId: 1337})
	defer l.Close()

	var gets int32
	states := &mocks.TrackerStateUseCase{}
	states.On("Get", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { atomic.AddInt32(&gets, 1) }).
		Return(nil, errors.New("mongo down"))

	c, cancel := ctx.WithCancel(ctx.Background())
	done := Supervise(c, &EventTrackerCfg{
		ChainId:             1337,
		Client:              l,
		TrackerStateUseCase: states,
		ContractAddress:     common.HexToAddress("0x0000000000000000000000000000000000000a0c"),
		EventHandl: NewAuctionEventHandler(&AuctionEventHandlerCfg{
			ChainId:         1337,
			ActivityUseCase: &activityMocks.UseCase{},
		}),
		TrackerTag: "auction",
	}, backoff.NewExponential(time.Millisecond, 4*time.Millisecond), time.Minute)

	req.Eventually(func() bool {
		return atomic.LoadInt32(&gets) >= 3
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		req.Fail("supervisor did not stop")
	}
}
