package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ERC721ABI abi.ABI

var (
	ERC721TransferID       common.Hash
	ERC721ApprovalID       common.Hash
	ERC721ApprovalForAllID common.Hash
)

func init() {
	ERC721ABI = mustParse(erc721ABIJson)
	ERC721TransferID = ERC721ABI.Events["Transfer"].ID
	ERC721ApprovalID = ERC721ABI.Events["Approval"].ID
	ERC721ApprovalForAllID = ERC721ABI.Events["ApprovalForAll"].ID
}

type ERC721TransferLog struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

type ERC721ApprovalForAllLog struct {
	Owner    common.Address
	Operator common.Address
	Approved bool
}

func ToERC721TransferLog(log *types.Log) (*ERC721TransferLog, error) {
	var l ERC721TransferLog
	if err := UnpackLog(ERC721ABI, &l, "Transfer", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToERC721ApprovalForAllLog(log *types.Log) (*ERC721ApprovalForAllLog, error) {
	var l ERC721ApprovalForAllLog
	if err := UnpackLog(ERC721ABI, &l, "ApprovalForAll", log); err != nil {
		return nil, err
	}
	return &l, nil
}

var erc721ABIJson = `
[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "approved", "type": "address"},
      {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "approved", "type": "bool"}
    ],
    "name": "ApprovalForAll",
    "type": "event"
  }
]
`
