package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ERC20ABI abi.ABI

var (
	ERC20TransferID common.Hash
	ERC20ApprovalID common.Hash
)

func init() {
	ERC20ABI = mustParse(erc20ABIJson)
	ERC20TransferID = ERC20ABI.Events["Transfer"].ID
	ERC20ApprovalID = ERC20ABI.Events["Approval"].ID
}

type ERC20TransferLog struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

type ERC20ApprovalLog struct {
	Owner   common.Address
	Spender common.Address
	Value   *big.Int
}

func ToERC20TransferLog(log *types.Log) (*ERC20TransferLog, error) {
	var l ERC20TransferLog
	if err := UnpackLog(ERC20ABI, &l, "Transfer", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToERC20ApprovalLog(log *types.Log) (*ERC20ApprovalLog, error) {
	var l ERC20ApprovalLog
	if err := UnpackLog(ERC20ABI, &l, "Approval", log); err != nil {
		return nil, err
	}
	return &l, nil
}

var erc20ABIJson = `
[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "spender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  }
]
`
