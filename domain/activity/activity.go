package activity

import (
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

type Type string

const (
	TypeCreateAuction Type = "createAuction"
	TypePlaceBid      Type = "placeBid"
	TypeBidRefunded   Type = "bidRefunded"
	TypeResultAuction Type = "resultAuction"
	TypeWonAuction    Type = "wonAuction"
	TypeCancelAuction Type = "cancelAuction"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeCreateAuction, TypePlaceBid, TypeBidRefunded, TypeResultAuction, TypeWonAuction, TypeCancelAuction:
		return true
	}
	return false
}

// Activity is one account facing effect of an auction event. Price is in
// wei, DisplayPrice in token units.
type Activity struct {
	ChainId         domain.ChainId     `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address     `json:"contractAddress" bson:"contractAddress"`
	AuctionId       uint64             `json:"auctionId" bson:"auctionId"`
	NftContract     domain.Address     `json:"nftContract" bson:"nftContract"`
	ItemId          string             `json:"itemId" bson:"itemId"`
	Type            Type               `json:"type" bson:"type"`
	Account         domain.Address     `json:"account" bson:"account"`
	Price           string             `json:"price" bson:"price"`
	DisplayPrice    string             `json:"displayPrice" bson:"displayPrice"`
	BlockNumber     domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash          domain.TxHash      `json:"txHash" bson:"txHash"`
	LogIndex        int64              `json:"logIndex" bson:"logIndex"`
	Time            time.Time          `json:"time" bson:"time"`
}

// Id identifies an activity, the same log may yield several activities of different types
type Id struct {
	ChainId         domain.ChainId `bson:"chainId"`
	ContractAddress domain.Address `bson:"contractAddress"`
	TxHash          domain.TxHash  `bson:"txHash"`
	LogIndex        int64          `bson:"logIndex"`
	Type            Type           `bson:"type"`
}

func (a *Activity) ToId() *Id {
	return &Id{
		ChainId:         a.ChainId,
		ContractAddress: a.ContractAddress,
		TxHash:          a.TxHash,
		LogIndex:        a.LogIndex,
		Type:            a.Type,
	}
}

// AccountSummary aggregates the activities of one account on one auction contract
type AccountSummary struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	Account         domain.Address `json:"account" bson:"account"`
	Created         int64          `json:"created" bson:"created"`
	Bids            int64          `json:"bids" bson:"bids"`
	Refunds         int64          `json:"refunds" bson:"refunds"`
	Wins            int64          `json:"wins" bson:"wins"`
	Sold            int64          `json:"sold" bson:"sold"`
	Canceled        int64          `json:"canceled" bson:"canceled"`
	BidVolume       string         `json:"bidVolume" bson:"bidVolume"`
	SoldVolume      string         `json:"soldVolume" bson:"soldVolume"`
	LastActivity    time.Time      `json:"lastActivity" bson:"lastActivity"`
}

type SummaryId struct {
	ChainId         domain.ChainId `bson:"chainId"`
	ContractAddress domain.Address `bson:"contractAddress"`
	Account         domain.Address `bson:"account"`
}

func (s *AccountSummary) ToId() *SummaryId {
	return &SummaryId{
		ChainId:         s.ChainId,
		ContractAddress: s.ContractAddress,
		Account:         s.Account,
	}
}

type findAllOptions struct {
	Offset    *int
	Limit     *int
	ChainId   *domain.ChainId
	Contract  *domain.Address
	AuctionId *uint64
	Account   *domain.Address
	Types     []Type
	Before    *LogPosition
}

// LogPosition orders activities by the log that produced them
type LogPosition struct {
	BlockNumber domain.BlockNumber
	LogIndex    int64
}

// IsBefore tells whether the activity comes from a log earlier than p
func (a *Activity) IsBefore(p *LogPosition) bool {
	if a.BlockNumber != p.BlockNumber {
		return a.BlockNumber < p.BlockNumber
	}
	return a.LogIndex < p.LogIndex
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (*findAllOptions, error) {
	res := &findAllOptions{}
	for _, opt := range opts {
		if err := opt(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func WithPagination(offset, limit int) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Offset = &offset
		opts.Limit = &limit
		return nil
	}
}

func WithChainId(chainId domain.ChainId) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.ChainId = &chainId
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptions {
	return func(opts *findAllOptions) error {
		contract = contract.ToLower()
		opts.Contract = &contract
		return nil
	}
}

func WithAuctionId(id uint64) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.AuctionId = &id
		return nil
	}
}

func WithAccount(account domain.Address) FindAllOptions {
	return func(opts *findAllOptions) error {
		account = account.ToLower()
		opts.Account = &account
		return nil
	}
}

func WithTypes(types ...Type) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Types = types
		return nil
	}
}

// WithBefore keeps activities emitted strictly before the given log
func WithBefore(blockNumber domain.BlockNumber, logIndex int64) FindAllOptions {
	return func(opts *findAllOptions) error {
		opts.Before = &LogPosition{BlockNumber: blockNumber, LogIndex: logIndex}
		return nil
	}
}

type Repo interface {
	// Upsert stores an activity, keyed by its Id so replays are harmless
	Upsert(c ctx.Ctx, a *Activity) error
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Activity, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)

	GetSummary(c ctx.Ctx, id *SummaryId) (*AccountSummary, error)
	UpsertSummaries(c ctx.Ctx, summaries []*AccountSummary) error
}

type UseCase interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Activity, int, error)
	GetSummary(c ctx.Ctx, id *SummaryId) (*AccountSummary, error)

	// Project stores the activities and folds them into the account summaries
	Project(c ctx.Ctx, activities []*Activity) error
}

type SearchResult struct {
	Items []*Activity `json:"items"`
	Count int         `json:"count"`
}
