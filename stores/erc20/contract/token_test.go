package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/erc20"
)

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	bg       = context.Background()
)

type tokenSuite struct {
	suite.Suite

	l     *ledger.Ledger
	token erc20.Contract
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(tokenSuite))
}

func (s *tokenSuite) SetupTest() {
	s.l = ledger.New(&ledger.Config{
		ChainId: 1337,
		Clock:   ledger.NewManualClock(time.Unix(1600000000, 0)),
	})
	r, err := s.l.Execute(bg, ledger.Msg{From: deployer}, func(tx *ledger.Tx) error {
		t, err := Deploy(tx, &TokenCfg{
			Name:     DefaultName,
			Symbol:   DefaultSymbol,
			Decimals: DefaultDecimals,
			Supply:   DefaultSupply,
		})
		s.token = t
		return err
	})
	s.Require().NoError(err)
	s.Require().Len(r.Logs, 1)

	ev, err := abi.ToERC20TransferLog(&r.Logs[0])
	s.Require().NoError(err)
	s.Equal(common.Address{}, ev.From)
	s.Equal(deployer, ev.To)
	s.Equal(DefaultSupply.String(), ev.Value.String())
}

func (s *tokenSuite) TearDownTest() {
	s.l.Close()
}

func (s *tokenSuite) exec(from common.Address, fn func(tx *ledger.Tx) error) error {
	_, err := s.l.Execute(bg, ledger.Msg{From: from, To: s.token.Address()}, fn)
	return err
}

func (s *tokenSuite) TestInfo() {
	info := s.token.Info()
	s.Equal("BWP Token", info.Name)
	s.Equal("BWP", info.Symbol)
	s.Equal(uint8(18), info.Decimals)
	s.Equal("100000000000000000000000000", info.TotalSupply.String())
	s.Equal(info.TotalSupply.String(), s.token.BalanceOf(deployer).String())
}

func (s *tokenSuite) TestTransfer() {
	s.NoError(s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.Transfer(tx, alice, big.NewInt(100))
	}))
	s.Equal(int64(100), s.token.BalanceOf(alice).Int64())

	err := s.exec(alice, func(tx *ledger.Tx) error {
		return s.token.Transfer(tx, bob, big.NewInt(101))
	})
	s.True(errors.Is(err, domain.ErrERC20TransferExceedsBalance))
	s.Equal(int64(100), s.token.BalanceOf(alice).Int64())
	s.Equal(int64(0), s.token.BalanceOf(bob).Int64())

	err = s.exec(alice, func(tx *ledger.Tx) error {
		return s.token.Transfer(tx, common.Address{}, big.NewInt(1))
	})
	s.True(errors.Is(err, domain.ErrERC20TransferToZero))
}

func (s *tokenSuite) TestTransferFrom() {
	s.NoError(s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.Approve(tx, alice, big.NewInt(50))
	}))
	s.Equal(int64(50), s.token.Allowance(deployer, alice).Int64())

	err := s.exec(alice, func(tx *ledger.Tx) error {
		return s.token.TransferFrom(tx, deployer, bob, big.NewInt(51))
	})
	s.True(errors.Is(err, domain.ErrERC20InsufficientAllowance))

	s.NoError(s.exec(alice, func(tx *ledger.Tx) error {
		return s.token.TransferFrom(tx, deployer, bob, big.NewInt(20))
	}))
	s.Equal(int64(20), s.token.BalanceOf(bob).Int64())
	s.Equal(int64(30), s.token.Allowance(deployer, alice).Int64())
}

func (s *tokenSuite) TestUnlimitedAllowance() {
	s.NoError(s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.Approve(tx, alice, math.MaxBig256)
	}))
	s.NoError(s.exec(alice, func(tx *ledger.Tx) error {
		return s.token.TransferFrom(tx, deployer, bob, big.NewInt(20))
	}))
	s.Equal(math.MaxBig256.String(), s.token.Allowance(deployer, alice).String())
}

func (s *tokenSuite) TestChangeAllowance() {
	s.NoError(s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.IncreaseAllowance(tx, alice, big.NewInt(10))
	}))
	s.NoError(s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.DecreaseAllowance(tx, alice, big.NewInt(4))
	}))
	s.Equal(int64(6), s.token.Allowance(deployer, alice).Int64())

	err := s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.DecreaseAllowance(tx, alice, big.NewInt(7))
	})
	s.True(errors.Is(err, domain.ErrERC20DecreasedBelowZero))

	err = s.exec(deployer, func(tx *ledger.Tx) error {
		return s.token.Approve(tx, common.Address{}, big.NewInt(1))
	})
	s.True(errors.Is(err, domain.ErrERC20ApproveToZero))
}

func (s *tokenSuite) TestRevertRestoresState() {
	failure := errors.New("failure")
	err := s.exec(deployer, func(tx *ledger.Tx) error {
		if err := s.token.Transfer(tx, alice, big.NewInt(10)); err != nil {
			return err
		}
		if err := s.token.Approve(tx, bob, big.NewInt(10)); err != nil {
			return err
		}
		return failure
	})
	s.True(errors.Is(err, failure))
	s.Equal(int64(0), s.token.BalanceOf(alice).Int64())
	s.Equal(int64(0), s.token.Allowance(deployer, bob).Int64())
	s.Equal(DefaultSupply.String(), s.token.BalanceOf(deployer).String())
}
