package tracker

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// blockRange is an inclusive range of blocks
type blockRange struct {
	begin uint64
	end   uint64
}

func newBlockRange(begin, end uint64) *blockRange {
	return &blockRange{begin: begin, end: end}
}

func (r *blockRange) split() (*blockRange, *blockRange) {
	mid := r.begin + (r.end-r.begin)/2
	return newBlockRange(r.begin, mid), newBlockRange(mid+1, r.end)
}

func (r *blockRange) single() bool {
	return r.begin == r.end
}

// apply narrows the query to the range
func (r *blockRange) apply(q ethereum.FilterQuery) ethereum.FilterQuery {
	q.FromBlock = new(big.Int).SetUint64(r.begin)
	q.ToBlock = new(big.Int).SetUint64(r.end)
	return q
}

func (r *blockRange) String() string {
	return fmt.Sprintf("blockRange{%d-%d}", r.begin, r.end)
}
