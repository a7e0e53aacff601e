package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ledger"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/erc20"
)

const (
	DefaultName     = "BWP Token"
	DefaultSymbol   = "BWP"
	DefaultDecimals = 18
)

// DefaultSupply is the amount minted to the deployer, 100,000,000 tokens
var DefaultSupply = new(big.Int).Mul(big.NewInt(100000000), math.BigPow(10, DefaultDecimals))

type TokenCfg struct {
	Name     string
	Symbol   string
	Decimals uint8
	// Supply is minted to the deployer
	Supply *big.Int
}

type token struct {
	address  common.Address
	name     string
	symbol   string
	decimals uint8

	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
}

// Deploy creates the token inside tx, the whole supply goes to tx.Sender()
func Deploy(tx *ledger.Tx, cfg *TokenCfg) (erc20.Contract, error) {
	t := &token{
		address:     tx.Deploy("MockToken"),
		name:        cfg.Name,
		symbol:      cfg.Symbol,
		decimals:    cfg.Decimals,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
	}
	if cfg.Supply != nil && cfg.Supply.Sign() > 0 {
		if err := t.mint(tx, tx.Sender(), cfg.Supply); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *token) Address() common.Address {
	return t.address
}

func (t *token) Info() *erc20.Info {
	return &erc20.Info{
		Address:     t.address,
		Name:        t.name,
		Symbol:      t.symbol,
		Decimals:    t.decimals,
		TotalSupply: new(big.Int).Set(t.totalSupply),
	}
}

func (t *token) BalanceOf(owner common.Address) *big.Int {
	if b, ok := t.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *token) Allowance(owner, spender common.Address) *big.Int {
	if a, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (t *token) Transfer(tx *ledger.Tx, to common.Address, amount *big.Int) error {
	return t.transfer(tx, tx.Sender(), to, amount)
}

func (t *token) Approve(tx *ledger.Tx, spender common.Address, amount *big.Int) error {
	return t.approve(tx, tx.Sender(), spender, amount)
}

func (t *token) TransferFrom(tx *ledger.Tx, from, to common.Address, amount *big.Int) error {
	if err := t.spendAllowance(tx, from, tx.Sender(), amount); err != nil {
		return err
	}
	return t.transfer(tx, from, to, amount)
}

func (t *token) IncreaseAllowance(tx *ledger.Tx, spender common.Address, added *big.Int) error {
	owner := tx.Sender()
	return t.approve(tx, owner, spender, new(big.Int).Add(t.Allowance(owner, spender), added))
}

func (t *token) DecreaseAllowance(tx *ledger.Tx, spender common.Address, subtracted *big.Int) error {
	owner := tx.Sender()
	current := t.Allowance(owner, spender)
	if current.Cmp(subtracted) < 0 {
		return domain.ErrERC20DecreasedBelowZero
	}
	return t.approve(tx, owner, spender, current.Sub(current, subtracted))
}

func (t *token) transfer(tx *ledger.Tx, from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return domain.ErrERC20TransferToZero
	}
	if amount.Sign() < 0 {
		return domain.ErrInvalidNumberFormat
	}
	fromBal := t.BalanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return domain.ErrERC20TransferExceedsBalance
	}
	t.setBalance(tx, from, fromBal.Sub(fromBal, amount))
	toBal := t.BalanceOf(to)
	t.setBalance(tx, to, toBal.Add(toBal, amount))
	return t.emit(tx, "Transfer", from, to, amount)
}

func (t *token) mint(tx *ledger.Tx, to common.Address, amount *big.Int) error {
	prevSupply := t.totalSupply
	t.totalSupply = new(big.Int).Add(prevSupply, amount)
	tx.Journal(func() { t.totalSupply = prevSupply })
	bal := t.BalanceOf(to)
	t.setBalance(tx, to, bal.Add(bal, amount))
	return t.emit(tx, "Transfer", common.Address{}, to, amount)
}

func (t *token) approve(tx *ledger.Tx, owner, spender common.Address, amount *big.Int) error {
	if spender == (common.Address{}) {
		return domain.ErrERC20ApproveToZero
	}
	if amount.Sign() < 0 {
		return domain.ErrInvalidNumberFormat
	}
	t.setAllowance(tx, owner, spender, new(big.Int).Set(amount))
	return t.emit(tx, "Approval", owner, spender, amount)
}

// spendAllowance leaves an unlimited allowance untouched
func (t *token) spendAllowance(tx *ledger.Tx, owner, spender common.Address, amount *big.Int) error {
	current := t.Allowance(owner, spender)
	if current.Cmp(math.MaxBig256) == 0 {
		return nil
	}
	if current.Cmp(amount) < 0 {
		return domain.ErrERC20InsufficientAllowance
	}
	return t.approve(tx, owner, spender, current.Sub(current, amount))
}

func (t *token) setBalance(tx *ledger.Tx, owner common.Address, v *big.Int) {
	prev, had := t.balances[owner]
	t.balances[owner] = v
	tx.Journal(func() {
		if had {
			t.balances[owner] = prev
		} else {
			delete(t.balances, owner)
		}
	})
}

func (t *token) setAllowance(tx *ledger.Tx, owner, spender common.Address, v *big.Int) {
	m, ok := t.allowances[owner]
	if !ok {
		m = make(map[common.Address]*big.Int)
		t.allowances[owner] = m
	}
	prev, had := m[spender]
	m[spender] = v
	tx.Journal(func() {
		if had {
			m[spender] = prev
		} else {
			delete(m, spender)
		}
	})
}

func (t *token) emit(tx *ledger.Tx, event string, args ...interface{}) error {
	topics, data, err := abi.PackEvent(abi.ERC20ABI, event, args...)
	if err != nil {
		return err
	}
	tx.Emit(t.address, topics, data)
	return nil
}
