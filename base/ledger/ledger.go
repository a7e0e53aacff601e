// Package ledger is a deterministic in-process chain. Transactions run one at
// a time, each either commits as a new block or reverts through its journal.
package ledger

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/domain"
)

const blockGasLimit = 30000000

// RevertError is returned when a transaction body fails, Reason is the revert string
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// Msg describes a transaction: From calls To attaching Value
type Msg struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

type Receipt struct {
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	Logs        []types.Log    `json:"logs"`
}

type contractCode struct {
	name  string
	block uint64
}

type Config struct {
	ChainId int64
	Clock   Clock
	// Alloc funds accounts in the genesis block
	Alloc map[common.Address]*big.Int
}

type Ledger struct {
	mu     sync.RWMutex
	sendMu sync.Mutex

	chainId *big.Int
	clock   Clock

	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	code      map[common.Address]contractCode
	receivers map[common.Address]Receiver

	headers []*types.Header
	logs    []types.Log

	feed  event.Feed
	scope event.SubscriptionScope
}

func New(cfg *Config) *Ledger {
	clock := cfg.Clock
	if clock == nil {
		clock = NewOffsetClock()
	}
	l := &Ledger{
		chainId:   big.NewInt(cfg.ChainId),
		clock:     clock,
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		code:      make(map[common.Address]contractCode),
		receivers: make(map[common.Address]Receiver),
	}
	for addr, amount := range cfg.Alloc {
		l.balances[addr] = new(big.Int).Set(amount)
	}
	l.headers = []*types.Header{{
		Number:     new(big.Int),
		Difficulty: new(big.Int),
		GasLimit:   blockGasLimit,
		Time:       uint64(clock.Now().Unix()),
	}}
	return l
}

// Execute runs fn as one transaction. The attached value is moved to msg.To
// before fn runs. Any error reverts every write fn made and no block is produced.
func (l *Ledger) Execute(c context.Context, msg Msg, fn func(*Tx) error) (*Receipt, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	parent := l.headers[len(l.headers)-1]
	number := parent.Number.Uint64() + 1
	blockTime := uint64(l.clock.Now().Unix())
	if blockTime < parent.Time {
		blockTime = parent.Time
	}
	tx := &Tx{
		l: l,
		st: &txState{
			hash:   txHash(msg.From, l.nonces[msg.From], number),
			origin: msg.From,
			number: number,
			time:   blockTime,
		},
		sender: msg.From,
		value:  msg.Value,
	}

	if err := l.run(tx, msg, fn); err != nil {
		tx.revert()
		l.mu.Unlock()
		var revert *RevertError
		if xerrors.As(err, &revert) {
			return nil, revert
		}
		return nil, &RevertError{Reason: err.Error(), Err: err}
	}

	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).SetUint64(number),
		Difficulty: new(big.Int),
		GasLimit:   blockGasLimit,
		Time:       blockTime,
	}
	blockHash := header.Hash()
	logs := make([]types.Log, len(tx.st.logs))
	for i, lg := range tx.st.logs {
		lg.BlockNumber = number
		lg.BlockHash = blockHash
		lg.TxHash = tx.st.hash
		lg.Index = uint(i)
		logs[i] = *lg
	}
	l.headers = append(l.headers, header)
	l.logs = append(l.logs, logs...)

	// hand over to the log sender before unlocking so subscribers see commit order
	l.sendMu.Lock()
	l.mu.Unlock()
	for _, lg := range logs {
		l.feed.Send(lg)
	}
	l.sendMu.Unlock()

	return &Receipt{
		TxHash:      tx.st.hash,
		BlockNumber: number,
		BlockTime:   blockTime,
		From:        msg.From,
		To:          msg.To,
		Logs:        logs,
	}, nil
}

func (l *Ledger) run(tx *Tx, msg Msg, fn func(*Tx) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if msg.Value != nil && msg.Value.Sign() != 0 {
		if msg.Value.Sign() < 0 || msg.To == (common.Address{}) {
			return domain.ErrInsufficientFunds
		}
		if err := l.move(tx, msg.From, msg.To, msg.Value); err != nil {
			return err
		}
	}
	return fn(tx)
}

// Read runs fn under the read lock. fn must not start a transaction.
func (l *Ledger) Read(fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn()
}

// SetReceiver installs a hook run on native payments to addr, nil removes it
func (l *Ledger) SetReceiver(addr common.Address, recv Receiver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if recv == nil {
		delete(l.receivers, addr)
		return
	}
	l.receivers[addr] = recv
}

func (l *Ledger) Balance(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceOf(addr)
}

// IsContract tells whether addr was created through Tx.Deploy
func (l *Ledger) IsContract(addr common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.code[addr]
	return ok
}

// Head returns the latest block header
func (l *Ledger) Head() *types.Header {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return types.CopyHeader(l.headers[len(l.headers)-1])
}

func (l *Ledger) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.chainId), nil
}

// Now is the timestamp the next block would get
func (l *Ledger) Now() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := uint64(l.clock.Now().Unix())
	if head := l.headers[len(l.headers)-1]; now < head.Time {
		return head.Time
	}
	return now
}

// Close ends every log subscription
func (l *Ledger) Close() {
	l.scope.Close()
}

func txHash(from common.Address, nonce, number uint64) common.Hash {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], nonce)
	binary.BigEndian.PutUint64(buf[8:], number)
	return crypto.Keccak256Hash(from.Bytes(), buf)
}
