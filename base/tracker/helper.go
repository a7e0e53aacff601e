package tracker

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/nftauction/domain"
)

type logWithBlockTime struct {
	types.Log
	blockTime time.Time
}

func toLogMeta(l *logWithBlockTime) *domain.LogMeta {
	return &domain.LogMeta{
		BlockNumber:     domain.BlockNumber(l.BlockNumber),
		BlockTime:       l.blockTime,
		TxHash:          domain.TxHash(strings.ToLower(l.TxHash.Hex())),
		TxIndex:         l.TxIndex,
		LogIndex:        l.Index,
		ContractAddress: domain.ToAddress(l.Address),
	}
}
