package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
)

const summaryWorkers = 8

type activityUseCase struct {
	repo activity.Repo
}

func NewActivityUseCase(repo activity.Repo) activity.UseCase {
	return &activityUseCase{repo: repo}
}

func (u *activityUseCase) FindAll(c ctx.Ctx, opts ...activity.FindAllOptions) ([]*activity.Activity, int, error) {
	res, err := u.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, 0, err
	}
	cnt, err := u.repo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.Count failed")
		return nil, 0, err
	}
	return res, cnt, nil
}

func (u *activityUseCase) GetSummary(c ctx.Ctx, id *activity.SummaryId) (*activity.AccountSummary, error) {
	id.ContractAddress = id.ContractAddress.ToLower()
	id.Account = id.Account.ToLower()
	return u.repo.GetSummary(c, id)
}

func (u *activityUseCase) Project(c ctx.Ctx, activities []*activity.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	keys := []activity.SummaryId{}
	groups := map[activity.SummaryId][]*activity.Activity{}
	for _, a := range activities {
		if err := u.repo.Upsert(c, a); err != nil {
			return err
		}
		id := activity.SummaryId{
			ChainId:         a.ChainId,
			ContractAddress: a.ContractAddress,
			Account:         a.Account,
		}
		if _, ok := groups[id]; !ok {
			keys = append(keys, id)
		}
		groups[id] = append(groups[id], a)
	}

	b := goroutines.NewBatch(summaryWorkers, goroutines.WithBatchSize(len(keys)))
	defer b.Close()
	for i := range keys {
		id := keys[i]
		b.Queue(func() (interface{}, error) {
			return u.fold(c, &id, groups[id])
		})
	}
	b.QueueComplete()

	summaries := make([]*activity.AccountSummary, 0, len(keys))
	var firstErr error
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			c.WithField("err", err).Error("fold summary failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		summaries = append(summaries, ret.Value().(*activity.AccountSummary))
	}
	if firstErr != nil {
		return firstErr
	}

	if err := u.repo.UpsertSummaries(c, summaries); err != nil {
		c.WithFields(log.Fields{"err": err, "count": len(summaries)}).Error("repo.UpsertSummaries failed")
		return err
	}
	return nil
}

// fold applies the activities of one account on top of its stored summary
func (u *activityUseCase) fold(c ctx.Ctx, id *activity.SummaryId, activities []*activity.Activity) (*activity.AccountSummary, error) {
	s, err := u.repo.GetSummary(c, id)
	if err == domain.ErrNotFound {
		s = &activity.AccountSummary{
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			Account:         id.Account,
			BidVolume:       "0",
			SoldVolume:      "0",
		}
	} else if err != nil {
		return nil, err
	}

	bidVolume, err := parseVolume(s.BidVolume)
	if err != nil {
		return nil, err
	}
	soldVolume, err := parseVolume(s.SoldVolume)
	if err != nil {
		return nil, err
	}

	for _, a := range activities {
		price, err := parseVolume(a.Price)
		if err != nil {
			return nil, err
		}
		switch a.Type {
		case activity.TypeCreateAuction:
			s.Created++
		case activity.TypePlaceBid:
			s.Bids++
			bidVolume = bidVolume.Add(price)
		case activity.TypeBidRefunded:
			s.Refunds++
		case activity.TypeWonAuction:
			s.Wins++
		case activity.TypeResultAuction:
			if price.IsPositive() {
				s.Sold++
				soldVolume = soldVolume.Add(price)
			}
		case activity.TypeCancelAuction:
			s.Canceled++
		}
		if a.Time.After(s.LastActivity) {
			s.LastActivity = a.Time
		}
	}
	s.BidVolume = bidVolume.String()
	s.SoldVolume = soldVolume.String()
	return s, nil
}

func parseVolume(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}
