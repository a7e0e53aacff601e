package contract

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/erc20"
	"github.com/x-xyz/nftauction/domain/erc721"
	erc20Contract "github.com/x-xyz/nftauction/stores/erc20/contract"
	erc721Contract "github.com/x-xyz/nftauction/stores/erc721/contract"
)

const t0 = 1600000000

var (
	owner  = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	seller = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol  = common.HexToAddress("0x00000000000000000000000000000000000ca201")
	dave   = common.HexToAddress("0x0000000000000000000000000000000000000da3")
	bg     = context.Background()
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), math.BigPow(10, 18))
}

// world is a ledger with a token, an nft and an auction deployed by owner
type world struct {
	suite.Suite

	variant auction.Variant
	clock   *ledger.ManualClock
	l       *ledger.Ledger
	token   erc20.Contract
	nft     erc721.Contract
	auction auction.Contract
	repo    auction.Repo
}

func (w *world) setup(variant auction.Variant, pct uint64) {
	w.variant = variant
	w.clock = ledger.NewManualClock(time.Unix(t0, 0))
	w.l = ledger.New(&ledger.Config{
		ChainId: 1337,
		Clock:   w.clock,
		Alloc: map[common.Address]*big.Int{
			owner:  ether(1000),
			seller: ether(1000),
			bob:    ether(1000),
			carol:  ether(1000),
		},
	})

	_, err := w.l.Execute(bg, ledger.Msg{From: owner}, func(tx *ledger.Tx) error {
		dir := erc721Contract.NewDirectory()
		nft, err := erc721Contract.Deploy(tx, &erc721Contract.NftCfg{
			Name:   erc721Contract.DefaultName,
			Symbol: erc721Contract.DefaultSymbol,
		})
		if err != nil {
			return err
		}
		dir.Add(tx, nft)
		w.nft = nft

		cfg := &AuctionCfg{
			Variant:         variant,
			BidPricePercent: pct,
			Nfts:            dir,
		}
		if variant == auction.VariantToken {
			token, err := erc20Contract.Deploy(tx, &erc20Contract.TokenCfg{
				Name:     erc20Contract.DefaultName,
				Symbol:   erc20Contract.DefaultSymbol,
				Decimals: erc20Contract.DefaultDecimals,
				Supply:   erc20Contract.DefaultSupply,
			})
			if err != nil {
				return err
			}
			w.token = token
			cfg.Token = token
		}
		w.auction, w.repo, err = Deploy(tx, cfg)
		return err
	})
	w.Require().NoError(err)

	if variant == auction.VariantToken {
		for _, acct := range []common.Address{bob, carol} {
			w.Require().NoError(w.execToken(owner, func(tx *ledger.Tx) error {
				return w.token.Transfer(tx, acct, ether(1000))
			}))
			w.Require().NoError(w.execToken(acct, func(tx *ledger.Tx) error {
				return w.token.Approve(tx, w.auction.Address(), math.MaxBig256)
			}))
		}
	}
}

func (w *world) exec(from common.Address, value *big.Int, fn func(tx *ledger.Tx) error) (*ledger.Receipt, error) {
	return w.l.Execute(bg, ledger.Msg{From: from, To: w.auction.Address(), Value: value}, fn)
}

func (w *world) execToken(from common.Address, fn func(tx *ledger.Tx) error) error {
	_, err := w.l.Execute(bg, ledger.Msg{From: from, To: w.token.Address()}, fn)
	return err
}

// listItem mints an item to the lister, approves the auction and creates a
// 6 seconds auction starting now
func (w *world) listItem(lister common.Address, price *big.Int) uint64 {
	var itemId *big.Int
	_, err := w.l.Execute(bg, ledger.Msg{From: owner, To: w.nft.Address()}, func(tx *ledger.Tx) error {
		var err error
		itemId, err = w.nft.MintTo(tx, lister)
		return err
	})
	w.Require().NoError(err)
	_, err = w.l.Execute(bg, ledger.Msg{From: lister, To: w.nft.Address()}, func(tx *ledger.Tx) error {
		if w.nft.IsApprovedForAll(lister, w.auction.Address()) {
			return nil
		}
		return w.nft.SetApprovalForAll(tx, w.auction.Address(), true)
	})
	w.Require().NoError(err)

	var id uint64
	_, err = w.exec(lister, nil, func(tx *ledger.Tx) error {
		var cerr error
		id, cerr = w.auction.CreateAuction(tx, &auction.CreateParams{
			NftContract: w.nft.Address(),
			ItemId:      itemId,
			Price:       price,
			Start:       tx.Time(),
			End:         tx.Time() + 6,
		})
		return cerr
	})
	w.Require().NoError(err)
	return id
}

// bid pays amount as token allowance or attached value depending on the variant
func (w *world) bid(from common.Address, id uint64, amount *big.Int) error {
	var value *big.Int
	if w.variant == auction.VariantNative {
		value = amount
	}
	_, err := w.exec(from, value, func(tx *ledger.Tx) error {
		return w.auction.Bid(tx, id, amount)
	})
	return err
}

func (w *world) balance(acct common.Address) *big.Int {
	if w.variant == auction.VariantToken {
		return w.token.BalanceOf(acct)
	}
	return w.l.Balance(acct)
}

func (w *world) ownerOf(itemId *big.Int) common.Address {
	o, err := w.nft.OwnerOf(itemId)
	w.Require().NoError(err)
	return o
}

func (w *world) get(id uint64) *auction.Auction {
	a, err := w.repo.Get(id)
	w.Require().NoError(err)
	return a
}

func (w *world) advance(d time.Duration) {
	w.clock.Advance(d)
}
