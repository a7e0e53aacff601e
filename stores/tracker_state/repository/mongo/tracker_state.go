package mongo

import (
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/service/query"
)

type trackerStateMongoRepo struct {
	q query.Mongo
}

func NewTrackerStateMongoRepo(q query.Mongo) domain.TrackerStateRepo {
	return &trackerStateMongoRepo{q: q}
}

func (r *trackerStateMongoRepo) Get(c ctx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	state := &domain.TrackerState{}
	if err := r.q.FindOne(c, domain.TableTrackerStates, id, state); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return state, nil
}

func (r *trackerStateMongoRepo) Update(c ctx.Ctx, state *domain.TrackerState) error {
	if err := r.q.Patch(c, domain.TableTrackerStates, state.ToId(), state); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  state.ToId(),
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *trackerStateMongoRepo) Store(c ctx.Ctx, state *domain.TrackerState) error {
	if err := r.q.Insert(c, domain.TableTrackerStates, state); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  state.ToId(),
		}).Error("q.Insert failed")
		return err
	}
	return nil
}
