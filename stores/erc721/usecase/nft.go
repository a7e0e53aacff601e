package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/erc721"
)

type NftUseCaseCfg struct {
	Ledger   *ledger.Ledger
	Contract erc721.Contract
	// Registry is optional, RegisterProxy fails without it
	Registry erc721.ProxyRegistry
}

type nftUseCase struct {
	ledger   *ledger.Ledger
	contract erc721.Contract
	registry erc721.ProxyRegistry
}

func NewNftUseCase(cfg *NftUseCaseCfg) erc721.UseCase {
	return &nftUseCase{
		ledger:   cfg.Ledger,
		contract: cfg.Contract,
		registry: cfg.Registry,
	}
}

func (u *nftUseCase) Info(c ctx.Ctx) (*erc721.Info, error) {
	var res *erc721.Info
	u.ledger.Read(func() {
		res = u.contract.Info()
	})
	return res, nil
}

func (u *nftUseCase) Get(c ctx.Ctx, tokenId *big.Int) (*erc721.Token, error) {
	var (
		res *erc721.Token
		err error
	)
	u.ledger.Read(func() {
		res, err = u.get(tokenId)
	})
	if err == domain.ErrERC721InvalidToken {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"tokenId": tokenId,
		}).Error("erc721.get failed")
		return nil, err
	}
	return res, nil
}

func (u *nftUseCase) get(tokenId *big.Int) (*erc721.Token, error) {
	owner, err := u.contract.OwnerOf(tokenId)
	if err != nil {
		return nil, err
	}
	approved, err := u.contract.GetApproved(tokenId)
	if err != nil {
		return nil, err
	}
	uri, err := u.contract.TokenURI(tokenId)
	if err != nil {
		return nil, err
	}
	return &erc721.Token{
		TokenId:  new(big.Int).Set(tokenId),
		Owner:    owner,
		Approved: approved,
		TokenURI: uri,
	}, nil
}

func (u *nftUseCase) BalanceOf(c ctx.Ctx, owner common.Address) (*big.Int, error) {
	var (
		res *big.Int
		err error
	)
	u.ledger.Read(func() {
		res, err = u.contract.BalanceOf(owner)
	})
	return res, err
}

func (u *nftUseCase) IsApprovedForAll(c ctx.Ctx, owner, operator common.Address) (bool, error) {
	var res bool
	u.ledger.Read(func() {
		res = u.contract.IsApprovedForAll(owner, operator)
	})
	return res, nil
}

func (u *nftUseCase) MintTo(c ctx.Ctx, from, to common.Address) (*big.Int, *ledger.Receipt, error) {
	var tokenId *big.Int
	r, err := u.execute(c, "MintTo", from, u.contract.Address(), func(tx *ledger.Tx) error {
		id, err := u.contract.MintTo(tx, to)
		tokenId = id
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return tokenId, r, nil
}

func (u *nftUseCase) Approve(c ctx.Ctx, from, to common.Address, tokenId *big.Int) (*ledger.Receipt, error) {
	return u.execute(c, "Approve", from, u.contract.Address(), func(tx *ledger.Tx) error {
		return u.contract.Approve(tx, to, tokenId)
	})
}

func (u *nftUseCase) SetApprovalForAll(c ctx.Ctx, from, operator common.Address, approved bool) (*ledger.Receipt, error) {
	return u.execute(c, "SetApprovalForAll", from, u.contract.Address(), func(tx *ledger.Tx) error {
		return u.contract.SetApprovalForAll(tx, operator, approved)
	})
}

func (u *nftUseCase) TransferFrom(c ctx.Ctx, sender, from, to common.Address, tokenId *big.Int) (*ledger.Receipt, error) {
	return u.execute(c, "TransferFrom", sender, u.contract.Address(), func(tx *ledger.Tx) error {
		return u.contract.TransferFrom(tx, from, to, tokenId)
	})
}

func (u *nftUseCase) RegisterProxy(c ctx.Ctx, from, proxy common.Address) (*ledger.Receipt, error) {
	if u.registry == nil {
		return nil, domain.ErrNotFound
	}
	return u.execute(c, "RegisterProxy", from, u.registry.Address(), func(tx *ledger.Tx) error {
		return u.registry.RegisterProxy(tx, proxy)
	})
}

func (u *nftUseCase) execute(c ctx.Ctx, op string, from, to common.Address, fn func(*ledger.Tx) error) (*ledger.Receipt, error) {
	r, err := u.ledger.Execute(c, ledger.Msg{From: from, To: to}, fn)
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"from": from,
		}).Warn("erc721." + op + " reverted")
		return nil, err
	}
	return r, nil
}
