package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/mocks"
)

func TestTrackerStateUseCase(t *testing.T) {
	req := require.New(t)
	repo := &mocks.TrackerStateRepo{}
	uc := NewTrackerStateUseCase(repo, time.Second)

	lower := &domain.TrackerStateId{
		ChainId:         1337,
		ContractAddress: "0x00000000000000000000000000000000000000ab",
		Tag:             "auction",
	}
	state := domain.NewTrackerState(lower, 1, 3)

	repo.On("Get", mock.Anything, lower).Return(state, nil).Once()
	got, err := uc.Get(ctx.Background(), &domain.TrackerStateId{
		ChainId:         1337,
		ContractAddress: "0x00000000000000000000000000000000000000AB",
		Tag:             "auction",
	})
	req.NoError(err)
	req.Equal(state, got)

	repo.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Once()
	_, err = uc.Get(ctx.Background(), lower)
	req.ErrorIs(err, domain.ErrNotFound)

	repo.On("Store", mock.Anything, mock.MatchedBy(func(s *domain.TrackerState) bool {
		return s.ContractAddress == lower.ContractAddress && s.LastLogIndexProcessed == -1
	})).Return(nil).Once()
	req.NoError(uc.Store(ctx.Background(), &domain.TrackerState{
		ChainId:               1337,
		ContractAddress:       "0x00000000000000000000000000000000000000AB",
		Tag:                   "auction",
		LastLogIndexProcessed: -1,
	}))

	repo.On("Update", mock.Anything, state).Return(nil).Once()
	req.NoError(uc.Update(ctx.Background(), state))

	repo.AssertExpectations(t)
}
