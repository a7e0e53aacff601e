package domain

import (
	"github.com/x-xyz/nftauction/base/ctx"
)

const DefaultTag = "default"

// TrackerState is the resume point of an event tracker on one contract
type TrackerState struct {
	ChainId               ChainId `bson:"chainId"`
	ContractAddress       Address `bson:"contractAddress"`
	Tag                   string  `bson:"tag"`
	Version               uint64  `bson:"version"`
	DeployedBlock         uint64  `bson:"deployedBlock"`
	LastBlockProcessed    uint64  `bson:"lastBlockProcessed"`
	LastLogIndexProcessed int64   `bson:"lastLogIndexProcessed"`
}

func NewTrackerState(id *TrackerStateId, version, deployedBlock uint64) *TrackerState {
	return &TrackerState{
		ChainId:               id.ChainId,
		ContractAddress:       id.ContractAddress.ToLower(),
		Tag:                   id.Tag,
		Version:               version,
		DeployedBlock:         deployedBlock,
		LastBlockProcessed:    deployedBlock,
		LastLogIndexProcessed: -1,
	}
}

func (s *TrackerState) ToId() *TrackerStateId {
	return &TrackerStateId{
		ChainId:         s.ChainId,
		ContractAddress: s.ContractAddress,
		Tag:             s.Tag,
	}
}

// Processed tells whether a log at (block, index) is already applied
func (s *TrackerState) Processed(block uint64, index uint) bool {
	if block != s.LastBlockProcessed {
		return block < s.LastBlockProcessed
	}
	return int64(index) <= s.LastLogIndexProcessed
}

type TrackerStateId struct {
	ChainId         ChainId `bson:"chainId"`
	ContractAddress Address `bson:"contractAddress"`
	Tag             string  `bson:"tag"`
}

type TrackerStateRepo interface {
	Get(ctx.Ctx, *TrackerStateId) (*TrackerState, error)
	Update(ctx.Ctx, *TrackerState) error
	Store(ctx.Ctx, *TrackerState) error
}

type TrackerStateUseCase interface {
	Get(ctx.Ctx, *TrackerStateId) (*TrackerState, error)
	Update(ctx.Ctx, *TrackerState) error
	Store(ctx.Ctx, *TrackerState) error
}
