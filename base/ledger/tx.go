package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/x-xyz/nftauction/domain"
)

// Receiver runs when native value is paid to an account, tx.Sender() is the payer.
// Returning an error reverts the whole transaction.
type Receiver func(tx *Tx, amount *big.Int) error

type txState struct {
	hash    common.Hash
	origin  common.Address
	number  uint64
	time    uint64
	journal []func()
	logs    []*types.Log
}

// Tx is the execution scope of one transaction. Nested contract calls get a
// Tx sharing the same journal and logs with a different sender.
type Tx struct {
	l      *Ledger
	st     *txState
	sender common.Address
	value  *big.Int
}

func (tx *Tx) Hash() common.Hash {
	return tx.st.hash
}

// Sender is msg.sender of the current call frame
func (tx *Tx) Sender() common.Address {
	return tx.sender
}

// Origin is the account that sent the transaction
func (tx *Tx) Origin() common.Address {
	return tx.st.origin
}

// Value is the native value attached to the current call frame
func (tx *Tx) Value() *big.Int {
	if tx.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(tx.value)
}

// Time is the block timestamp in unix seconds
func (tx *Tx) Time() uint64 {
	return tx.st.time
}

func (tx *Tx) BlockNumber() uint64 {
	return tx.st.number
}

// As returns a call frame where caller is msg.sender and no value is attached
func (tx *Tx) As(caller common.Address) *Tx {
	return &Tx{l: tx.l, st: tx.st, sender: caller}
}

// Journal registers the undo of a state write, undos run in reverse order on revert
func (tx *Tx) Journal(undo func()) {
	tx.st.journal = append(tx.st.journal, undo)
}

// Emit records a log of the given contract, dropped on revert
func (tx *Tx) Emit(address common.Address, topics []common.Hash, data []byte) {
	tx.st.logs = append(tx.st.logs, &types.Log{
		Address: address,
		Topics:  topics,
		Data:    data,
	})
}

// BalanceOf returns the native balance seen by this transaction
func (tx *Tx) BalanceOf(addr common.Address) *big.Int {
	return tx.l.balanceOf(addr)
}

// Pay moves native value from the sender to the given account and runs its receiver
func (tx *Tx) Pay(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if err := tx.l.move(tx, tx.sender, to, amount); err != nil {
		return err
	}
	if recv := tx.l.receivers[to]; recv != nil {
		return recv(tx.As(tx.sender), new(big.Int).Set(amount))
	}
	return nil
}

// Deploy registers a contract created by the sender and returns its address
func (tx *Tx) Deploy(name string) common.Address {
	l := tx.l
	creator := tx.sender
	nonce := l.nonces[creator]
	addr := crypto.CreateAddress(creator, nonce)
	l.nonces[creator] = nonce + 1
	l.code[addr] = contractCode{name: name, block: tx.st.number}
	tx.Journal(func() {
		l.nonces[creator] = nonce
		delete(l.code, addr)
	})
	return addr
}

func (tx *Tx) revert() {
	for i := len(tx.st.journal) - 1; i >= 0; i-- {
		tx.st.journal[i]()
	}
	tx.st.journal = nil
	tx.st.logs = nil
}

func (l *Ledger) move(tx *Tx, from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return domain.ErrInsufficientFunds
	}
	fromBal := l.balanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return domain.ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	toBal := l.balanceOf(to)
	l.balances[from] = new(big.Int).Sub(fromBal, amount)
	l.balances[to] = new(big.Int).Add(toBal, amount)
	tx.Journal(func() {
		l.balances[from] = fromBal
		l.balances[to] = toBal
	})
	return nil
}

func (l *Ledger) balanceOf(addr common.Address) *big.Int {
	if b, ok := l.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}
