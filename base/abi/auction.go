package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var AuctionABI abi.ABI

var (
	AuctionBidID                  common.Hash
	AuctionEndAuctionID           common.Hash
	AuctionCreateAuctionID        common.Hash
	AuctionCancelAuctionID        common.Hash
	AuctionOwnershipTransferredID common.Hash
)

func init() {
	AuctionABI = mustParse(auctionABIJson)
	AuctionBidID = AuctionABI.Events["Bid"].ID
	AuctionEndAuctionID = AuctionABI.Events["EndAuction"].ID
	AuctionCreateAuctionID = AuctionABI.Events["CreateAuction"].ID
	AuctionCancelAuctionID = AuctionABI.Events["CancelAuction"].ID
	AuctionOwnershipTransferredID = AuctionABI.Events["OwnershipTransferred"].ID
}

type BidLog struct {
	Sender    common.Address
	AuctionId *big.Int
	Price     *big.Int
}

type EndAuctionLog struct {
	Sender    common.Address
	AuctionId *big.Int
}

type CreateAuctionLog struct {
	Seller      common.Address
	AuctionId   *big.Int
	NftContract common.Address
	ItemId      *big.Int
	Price       *big.Int
	Start       *big.Int
	End         *big.Int
}

type CancelAuctionLog struct {
	Sender    common.Address
	AuctionId *big.Int
}

type OwnershipTransferredLog struct {
	PreviousOwner common.Address
	NewOwner      common.Address
}

func ToBidLog(log *types.Log) (*BidLog, error) {
	var l BidLog
	if err := UnpackLog(AuctionABI, &l, "Bid", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToEndAuctionLog(log *types.Log) (*EndAuctionLog, error) {
	var l EndAuctionLog
	if err := UnpackLog(AuctionABI, &l, "EndAuction", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToCreateAuctionLog(log *types.Log) (*CreateAuctionLog, error) {
	var l CreateAuctionLog
	if err := UnpackLog(AuctionABI, &l, "CreateAuction", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToCancelAuctionLog(log *types.Log) (*CancelAuctionLog, error) {
	var l CancelAuctionLog
	if err := UnpackLog(AuctionABI, &l, "CancelAuction", log); err != nil {
		return nil, err
	}
	return &l, nil
}

func ToOwnershipTransferredLog(log *types.Log) (*OwnershipTransferredLog, error) {
	var l OwnershipTransferredLog
	if err := UnpackLog(AuctionABI, &l, "OwnershipTransferred", log); err != nil {
		return nil, err
	}
	return &l, nil
}

var auctionABIJson = `
[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "auctionId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "price", "type": "uint256"}
    ],
    "name": "Bid",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "auctionId", "type": "uint256"}
    ],
    "name": "EndAuction",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "seller", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "auctionId", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "nftContract", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "itemId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "price", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "start", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "end", "type": "uint256"}
    ],
    "name": "CreateAuction",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "auctionId", "type": "uint256"}
    ],
    "name": "CancelAuction",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "previousOwner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "newOwner", "type": "address"}
    ],
    "name": "OwnershipTransferred",
    "type": "event"
  }
]
`
