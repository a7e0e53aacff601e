package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	NetworkDevelopment = "development"
	NetworkRopsten     = "ropsten"
	NetworkRinkeby     = "rinkeby"
	NetworkBscTestnet  = "bsc_testnet"
	NetworkBscMainnet  = "bsc_mainnet"
)

var (
	// proxy registries of the opensea wyvern exchange
	RinkebyProxyRegistry = common.HexToAddress("0xf57b2c51ded3a29e6891aba85459d600256cf317")
	MainnetProxyRegistry = common.HexToAddress("0xa5409ec958c83c3f309868babaca7c86dcb077c1")

	// RFOX token on bsc, the native variant does not use it for bids
	RfoxToken = common.HexToAddress("0xa1d6df714f91debf4e0802a542e13067f31b8262")
)

// Network is a deployment target. ChainId 0 accepts any chain id.
type Network struct {
	Name          string        `mapstructure:"name"`
	ChainId       ChainId       `mapstructure:"chainId"`
	RpcUrl        string        `mapstructure:"rpcUrl"`
	WsUrl         string        `mapstructure:"wsUrl"`
	BlockTime     time.Duration `mapstructure:"blockTime"`
	GasPrice      uint64        `mapstructure:"gasPrice"`
	Gas           uint64        `mapstructure:"gas"`
	Confirmations uint64        `mapstructure:"confirmations"`
	TimeoutBlocks uint64        `mapstructure:"timeoutBlocks"`
	SkipDryRun    bool          `mapstructure:"skipDryRun"`
}

var KnownNetworks = map[string]Network{
	NetworkDevelopment: {
		Name:     NetworkDevelopment,
		RpcUrl:   "http://127.0.0.1:8545",
		GasPrice: 70000000000,
	},
	NetworkRopsten: {
		Name:          NetworkRopsten,
		ChainId:       3,
		Gas:           5500000,
		Confirmations: 3,
		TimeoutBlocks: 200,
		SkipDryRun:    true,
	},
	NetworkRinkeby: {
		Name:          NetworkRinkeby,
		ChainId:       4,
		Gas:           5500000,
		Confirmations: 3,
		TimeoutBlocks: 200,
		SkipDryRun:    true,
	},
	NetworkBscTestnet: {
		Name:          NetworkBscTestnet,
		ChainId:       97,
		RpcUrl:        "https://data-seed-prebsc-1-s1.binance.org:8545",
		Gas:           5500000,
		Confirmations: 3,
		TimeoutBlocks: 200,
		SkipDryRun:    true,
	},
	NetworkBscMainnet: {
		Name:          NetworkBscMainnet,
		ChainId:       56,
		RpcUrl:        "https://bsc-dataseed.binance.org",
		Gas:           5500000,
		Confirmations: 3,
		TimeoutBlocks: 200,
		SkipDryRun:    true,
	},
}

func GetNetwork(name string) (Network, error) {
	n, ok := KnownNetworks[name]
	if !ok {
		return Network{}, ErrUnknownNetwork
	}
	return n, nil
}

// ProxyRegistryFor returns the proxy registry the nft trusts on the given network
func ProxyRegistryFor(network string) common.Address {
	if network == NetworkRinkeby {
		return RinkebyProxyRegistry
	}
	return MainnetProxyRegistry
}
