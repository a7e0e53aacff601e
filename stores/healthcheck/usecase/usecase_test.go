package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/stores/healthcheck/repository"
)

func TestCheckWithoutStores(t *testing.T) {
	req := require.New(t)
	l := ledger.New(&ledger.Config{ChainId: 1337})
	defer l.Close()

	req.NoError(New(repository.New(l, nil, nil)).Check(ctx.Background()))
}
