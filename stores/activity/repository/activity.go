package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/activity"
	"github.com/x-xyz/nftauction/service/query"
)

func makeFindQuery(optFns ...activity.FindAllOptions) (bson.M, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	qry := bson.M{}
	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}
	if opts.Contract != nil {
		qry["contractAddress"] = *opts.Contract
	}
	if opts.AuctionId != nil {
		qry["auctionId"] = *opts.AuctionId
	}
	if opts.Account != nil {
		qry["account"] = *opts.Account
	}
	if len(opts.Types) > 1 {
		qry["type"] = bson.M{"$in": opts.Types}
	} else if len(opts.Types) > 0 {
		qry["type"] = opts.Types[0]
	}
	if opts.Before != nil {
		qry["$or"] = bson.A{
			bson.M{"blockNumber": bson.M{"$lt": opts.Before.BlockNumber}},
			bson.M{"blockNumber": opts.Before.BlockNumber, "logIndex": bson.M{"$lt": opts.Before.LogIndex}},
		}
	}
	return qry, nil
}

type activityRepo struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) activity.Repo {
	return &activityRepo{q: q}
}

func (r *activityRepo) Upsert(c ctx.Ctx, a *activity.Activity) error {
	if err := r.q.Upsert(c, domain.TableAuctionActivities, a.ToId(), a); err != nil {
		c.WithFields(log.Fields{
			"activity": a,
			"err":      err,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *activityRepo) FindAll(c ctx.Ctx, optFns ...activity.FindAllOptions) ([]*activity.Activity, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("activity.GetFindAllOptions failed")
		return nil, err
	}
	qry, err := makeFindQuery(optFns...)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return nil, err
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	res := []*activity.Activity{}
	if err := r.q.SearchNSorts(c, domain.TableAuctionActivities, offset, limit, []string{"-blockNumber", "-logIndex"}, qry, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.SearchNSorts failed")
		return nil, err
	}
	return res, nil
}

func (r *activityRepo) Count(c ctx.Ctx, optFns ...activity.FindAllOptions) (int, error) {
	qry, err := makeFindQuery(optFns...)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return 0, err
	}
	cnt, err := r.q.Count(c, domain.TableAuctionActivities, qry)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (r *activityRepo) GetSummary(c ctx.Ctx, id *activity.SummaryId) (*activity.AccountSummary, error) {
	res := &activity.AccountSummary{}
	if err := r.q.FindOne(c, domain.TableAuctionAccountInfo, id, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *activityRepo) UpsertSummaries(c ctx.Ctx, summaries []*activity.AccountSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	ops := make([]query.UpsertOp, 0, len(summaries))
	for _, s := range summaries {
		ops = append(ops, query.UpsertOp{
			Selector: s.ToId(),
			Updater:  s,
		})
	}
	if _, _, err := r.q.BulkUpsert(c, domain.TableAuctionAccountInfo, ops); err != nil {
		c.WithFields(log.Fields{"err": err, "count": len(ops)}).Error("q.BulkUpsert failed")
		return err
	}
	return nil
}
