package usecase

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/deployment"
	auctionContract "github.com/x-xyz/nftauction/stores/auction/contract"
	erc20Contract "github.com/x-xyz/nftauction/stores/erc20/contract"
	erc721Contract "github.com/x-xyz/nftauction/stores/erc721/contract"
)

type deploymentUseCase struct {
	ledger *ledger.Ledger
}

func NewDeploymentUseCase(l *ledger.Ledger) deployment.UseCase {
	return &deploymentUseCase{ledger: l}
}

// Deploy runs the migrations in order, one transaction each:
// proxy registry (development only), token (token variant), nft, auction
func (u *deploymentUseCase) Deploy(c ctx.Ctx, deployer common.Address, cfg *deployment.Config) (*deployment.Deployment, error) {
	cfg = withDefaults(cfg)
	if _, err := domain.GetNetwork(cfg.Network); err != nil {
		return nil, xerrors.Errorf("network %s: %w", cfg.Network, err)
	}
	if !cfg.Variant.Valid() {
		return nil, xerrors.Errorf("variant %s: %w", cfg.Variant, domain.ErrUnknownVariant)
	}
	if cfg.Variant == auction.VariantNative && !auction.ValidNativeBidPricePercent(cfg.BidPricePercent) {
		return nil, xerrors.Errorf("bidPricePercent %d: %w", cfg.BidPricePercent, domain.ErrInvalidBidPricePercent)
	}

	res := &deployment.Deployment{
		Network: cfg.Network,
		Variant: cfg.Variant,
	}
	logger := c.WithFields(log.Fields{"network": cfg.Network, "variant": cfg.Variant, "deployer": deployer})

	if cfg.Network == domain.NetworkDevelopment {
		if err := u.migrate(c, "1_proxy_registry", deployer, func(tx *ledger.Tx) error {
			res.Registry = erc721Contract.DeployProxyRegistry(tx)
			res.Addresses.ProxyRegistry = res.Registry.Address()
			return nil
		}); err != nil {
			return nil, err
		}
	} else {
		res.Addresses.ProxyRegistry = domain.ProxyRegistryFor(cfg.Network)
	}

	if cfg.Variant == auction.VariantToken {
		if err := u.migrate(c, "2_token", deployer, func(tx *ledger.Tx) error {
			token, err := erc20Contract.Deploy(tx, &erc20Contract.TokenCfg{
				Name:     cfg.Token.Name,
				Symbol:   cfg.Token.Symbol,
				Decimals: cfg.Token.Decimals,
				Supply:   erc20Contract.DefaultSupply,
			})
			if err != nil {
				return err
			}
			res.Token = token
			res.Addresses.Token = token.Address()
			return nil
		}); err != nil {
			return nil, err
		}
	}

	dir := erc721Contract.NewDirectory()
	if err := u.migrate(c, "3_nft", deployer, func(tx *ledger.Tx) error {
		nft, err := erc721Contract.Deploy(tx, &erc721Contract.NftCfg{
			Name:            cfg.Nft.Name,
			Symbol:          cfg.Nft.Symbol,
			BaseURI:         cfg.Nft.BaseURI,
			Registry:        res.Registry,
			RegistryAddress: res.Addresses.ProxyRegistry,
		})
		if err != nil {
			return err
		}
		dir.Add(tx, nft)
		res.Nft = nft
		res.Addresses.Nft = nft.Address()
		return nil
	}); err != nil {
		return nil, err
	}

	if err := u.migrate(c, "4_auction", deployer, func(tx *ledger.Tx) error {
		a, repo, err := auctionContract.Deploy(tx, &auctionContract.AuctionCfg{
			Variant:         cfg.Variant,
			BidPricePercent: cfg.BidPricePercent,
			Token:           res.Token,
			Nfts:            dir,
		})
		if err != nil {
			return err
		}
		res.Auction = a
		res.Repo = repo
		res.Addresses.Auction = a.Address()
		res.BlockNumber = tx.BlockNumber()
		return nil
	}); err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"auction":       res.Addresses.Auction,
		"nft":           res.Addresses.Nft,
		"token":         res.Addresses.Token,
		"proxyRegistry": res.Addresses.ProxyRegistry,
	}).Info("contracts deployed")
	return res, nil
}

func (u *deploymentUseCase) migrate(c ctx.Ctx, step string, deployer common.Address, fn func(*ledger.Tx) error) error {
	r, err := u.ledger.Execute(c, ledger.Msg{From: deployer}, fn)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "step": step}).Error("migration failed")
		return xerrors.Errorf("migration %s: %w", step, err)
	}
	c.WithFields(log.Fields{"step": step, "blockNumber": r.BlockNumber}).Info("migration done")
	return nil
}

func withDefaults(cfg *deployment.Config) *deployment.Config {
	res := *cfg
	if res.Network == "" {
		res.Network = domain.NetworkDevelopment
	}
	if res.Variant == "" {
		res.Variant = auction.VariantToken
	}
	if res.BidPricePercent == 0 {
		res.BidPricePercent = auctionContract.DefaultBidPricePercent
	}
	if res.Token.Name == "" {
		res.Token.Name = erc20Contract.DefaultName
	}
	if res.Token.Symbol == "" {
		res.Token.Symbol = erc20Contract.DefaultSymbol
	}
	if res.Token.Decimals == 0 {
		res.Token.Decimals = erc20Contract.DefaultDecimals
	}
	if res.Nft.Name == "" {
		res.Nft.Name = erc721Contract.DefaultName
	}
	if res.Nft.Symbol == "" {
		res.Nft.Symbol = erc721Contract.DefaultSymbol
	}
	return &res
}
