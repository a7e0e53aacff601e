package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	Big1   = big.NewInt(1)
	Big100 = big.NewInt(100)
)

type ChainId int32

// Address is the lower case hex form of an account, used as storage and json key
type Address string

func ToAddress(a common.Address) Address {
	return Address(strings.ToLower(a.Hex()))
}

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

type BlockNumber uint64

type TxHash string

type BlockHash string

// CopyBig returns nil for nil, a fresh copy otherwise
func CopyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
