package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidAddress      = errors.New("Invalid address")
	ErrUnknownNetwork      = errors.New("unknown network")
	ErrUnknownVariant      = errors.New("unknown auction variant")
	ErrMissingBidToken     = errors.New("token auction requires a bid token")
)

// revert reasons, the messages are part of the contract interface
var (
	ErrNotOwner          = errors.New("Ownable: caller is not the owner")
	ErrZeroOwner         = errors.New("Ownable: new owner is the zero address")
	ErrReentrantCall     = errors.New("ReentrancyGuard: reentrant call")
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	ErrNotPayable        = errors.New("Auction: Not Payable")

	ErrInvalidPermission      = errors.New("Auction: Invalid Permission")
	ErrPriceIsLow             = errors.New("Auction: Price is low")
	ErrInvalidBidPricePercent = errors.New("Invalid Bid Price Percent")
	ErrInvalidAuction         = errors.New("Auction: Invalid Auction")
	ErrAuctionNotActive       = errors.New("Auction: Not Active")
	ErrAuctionNotInProgress   = errors.New("Auction: Not In Progress")
	ErrAuctionNotEnded        = errors.New("Auction: Not Ended Yet")
	ErrInvalidPeriod          = errors.New("Auction: Invalid Period")
	ErrInvalidPrice           = errors.New("Auction: Invalid Price")
	ErrInvalidNftContract     = errors.New("Auction: Invalid NFT Contract")

	ErrERC20TransferExceedsBalance   = errors.New("ERC20: transfer amount exceeds balance")
	ErrERC20InsufficientAllowance    = errors.New("ERC20: insufficient allowance")
	ErrERC20TransferToZero           = errors.New("ERC20: transfer to the zero address")
	ErrERC20ApproveToZero            = errors.New("ERC20: approve to the zero address")
	ErrERC20DecreasedBelowZero       = errors.New("ERC20: decreased allowance below zero")
	ErrERC721InvalidToken            = errors.New("ERC721: invalid token ID")
	ErrERC721NotOwnerNorApproved     = errors.New("ERC721: caller is not token owner nor approved")
	ErrERC721TransferFromWrongOwner  = errors.New("ERC721: transfer from incorrect owner")
	ErrERC721TransferToZero          = errors.New("ERC721: transfer to the zero address")
	ErrERC721ApprovalToCurrentOwner  = errors.New("ERC721: approval to current owner")
	ErrERC721ApproveCallerNotAllowed = errors.New("ERC721: approve caller is not token owner nor approved for all")
	ErrERC721ApproveToCaller         = errors.New("ERC721: approve to caller")
	ErrERC721ZeroAddressBalance      = errors.New("ERC721: address zero is not a valid owner")
	ErrERC721MintToZero              = errors.New("ERC721: mint to the zero address")
)
