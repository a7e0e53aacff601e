package usecase

import (
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

type trackerStateUseCase struct {
	repo       domain.TrackerStateRepo
	ctxTimeout time.Duration
}

func NewTrackerStateUseCase(r domain.TrackerStateRepo, ctxTimeout time.Duration) domain.TrackerStateUseCase {
	return &trackerStateUseCase{
		repo:       r,
		ctxTimeout: ctxTimeout,
	}
}

func (u *trackerStateUseCase) Get(c ctx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	c, cancel := ctx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	id.ContractAddress = id.ContractAddress.ToLower()
	return u.repo.Get(c, id)
}

func (u *trackerStateUseCase) Update(c ctx.Ctx, state *domain.TrackerState) error {
	c, cancel := ctx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.repo.Update(c, state)
}

func (u *trackerStateUseCase) Store(c ctx.Ctx, state *domain.TrackerState) error {
	c, cancel := ctx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	state.ContractAddress = state.ContractAddress.ToLower()
	return u.repo.Store(c, state)
}
