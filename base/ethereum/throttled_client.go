package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
)

// ThrottledClient caps the number of in flight calls to the node
type ThrottledClient struct {
	domain.ChainReader
	tokens chan int
	met    metrics.Service
}

func NewThrottledClient(client domain.ChainReader, n int) *ThrottledClient {
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledClient{
		ChainReader: client,
		tokens:      tokens,
		met:         metrics.New("ethclient"),
	}
}

func (c *ThrottledClient) BlockNumber(ctx context.Context) (uint64, error) {
	token, err := c.before(ctx, "BlockNumber")
	if err != nil {
		return 0, err
	}
	defer c.after(token)
	return c.ChainReader.BlockNumber(ctx)
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	token, err := c.before(ctx, "HeaderByNumber")
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.ChainReader.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) FilterLogs(ctx context.Context, filter ethereum.FilterQuery) ([]types.Log, error) {
	token, err := c.before(ctx, "FilterLogs")
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.ChainReader.FilterLogs(ctx, filter)
}

func (c *ThrottledClient) SubscribeFilterLogs(ctx context.Context, filter ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	token, err := c.before(ctx, "SubscribeFilterLogs")
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.ChainReader.SubscribeFilterLogs(ctx, filter, ch)
}

func (c *ThrottledClient) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	token, err := c.before(ctx, "CodeAt")
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.ChainReader.CodeAt(ctx, address, number)
}

func (c *ThrottledClient) before(ctx context.Context, method string) (int, error) {
	now := time.Now()
	select {
	case <-ctx.Done():
		c.met.BumpSum("throttle.canceled", 1, "method", method)
		return 0, ctx.Err()
	case token := <-c.tokens:
		c.met.BumpHistogram("throttle.wait", float64(time.Since(now).Milliseconds()), "method", method)
		return token, nil
	}
}

func (c *ThrottledClient) after(token int) {
	c.tokens <- token
}
