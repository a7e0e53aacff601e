package deployment

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/erc20"
	"github.com/x-xyz/nftauction/domain/erc721"
)

type TokenConfig struct {
	Name     string `mapstructure:"name"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
}

type NftConfig struct {
	Name    string `mapstructure:"name"`
	Symbol  string `mapstructure:"symbol"`
	BaseURI string `mapstructure:"baseURI"`
}

// Config selects what gets deployed, zero values fall back to the defaults
type Config struct {
	Network         string          `mapstructure:"network"`
	Variant         auction.Variant `mapstructure:"variant"`
	BidPricePercent uint64          `mapstructure:"bidPricePercent"`
	Token           TokenConfig     `mapstructure:"token"`
	Nft             NftConfig       `mapstructure:"nft"`
}

type Addresses struct {
	ProxyRegistry common.Address `json:"proxyRegistry"`
	Token         common.Address `json:"token,omitempty"`
	Nft           common.Address `json:"nft"`
	Auction       common.Address `json:"auction"`
}

// Deployment holds the deployed contracts, Token is nil for the native variant
// and Registry is nil when the network registry is not on the ledger
type Deployment struct {
	Network     string
	Variant     auction.Variant
	Addresses   Addresses
	BlockNumber uint64

	Token    erc20.Contract
	Nft      erc721.Contract
	Registry erc721.ProxyRegistry
	Auction  auction.Contract
	Repo     auction.Repo
}

type UseCase interface {
	Deploy(c ctx.Ctx, deployer common.Address, cfg *Config) (*Deployment, error)
}
