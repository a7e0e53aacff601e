package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
)

const (
	queryMaxTime  = 20 * time.Second
	slowThreshold = 500 * time.Millisecond
)

var (
	timeNow = time.Now

	errEmptyBulk = xerrors.New("empty bulk upsert")
)

type impl struct {
	client *mongoclient.Client
	met    metrics.Service
}

// New initializes an impl
func New(client *mongoclient.Client) Mongo {
	return &impl{
		client: client,
		met:    metrics.New("mongo"),
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

// track bumps the timing and returns the end func logging slow queries
func (im *impl) track(c ctx.Ctx, table domain.Table, action string, query interface{}) func() {
	end := im.met.BumpTime("query.time", "table", string(table), "action", action)
	start := timeNow()
	return func() {
		end.End()
		if elapsed := timeNow().Sub(start); elapsed >= slowThreshold {
			im.met.BumpSum("slowlog", 1, "table", string(table), "action", action)
			c.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"durationMs": elapsed.Milliseconds(),
				"query":      query,
			}).Warn("mongo slowlog")
		}
	}
}

func (im *impl) logerr(c ctx.Ctx, table domain.Table, msg string, err error) {
	im.met.BumpSum("err", 1, "table", string(table))
	c.WithFields(log.Fields{"err": err, "table": table}).Error(msg)
}

func (im *impl) Insert(c ctx.Ctx, table domain.Table, insert interface{}) error {
	defer im.track(c, table, "insert", nil)()

	if _, err := im.coll(table).InsertOne(c, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(c, table, "Insert: InsertOne failed", err)
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer im.track(c, table, "findone", query)()

	res := im.coll(table).FindOne(c, query, options.FindOne().SetMaxTime(queryMaxTime))
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(c, table, "FindOne: Decode failed", err)
		return err
	}
	return nil
}

func (im *impl) Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer im.track(c, table, "count", selector)()

	n, err := im.coll(table).CountDocuments(c, selector, options.Count().SetMaxTime(queryMaxTime))
	if err != nil {
		im.logerr(c, table, "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(n), nil
}

func (im *impl) Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer im.track(c, table, "upsert", selector)()

	if _, err := im.coll(table).ReplaceOne(c, selector, update, options.Replace().SetUpsert(true)); err != nil {
		im.logerr(c, table, "Upsert: ReplaceOne failed", err)
		return err
	}
	return nil
}

func (im *impl) Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	return im.SearchNSorts(c, table, offset, limit, []string{sort}, query, results)
}

func (im *impl) SearchNSorts(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error {
	defer im.track(c, table, "search", query)()

	findOpts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset))
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if sortOpt := sortOption(sortFields...); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}
	cursor, err := im.coll(table).Find(c, query, findOpts)
	if err != nil {
		im.logerr(c, table, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(c)

	if err := cursor.All(c, results); err != nil {
		im.logerr(c, table, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Patch(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer im.track(c, table, "patch", selector)()

	res, err := im.coll(table).UpdateOne(c, selector, bson.M{"$set": update})
	if err != nil {
		im.logerr(c, table, "Patch: UpdateOne failed", err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) RemoveAll(c ctx.Ctx, table domain.Table, selector interface{}) (int64, error) {
	defer im.track(c, table, "removeall", selector)()

	res, err := im.coll(table).DeleteMany(c, selector)
	if err != nil {
		im.logerr(c, table, "RemoveAll: DeleteMany failed", err)
		return 0, err
	}
	return res.DeletedCount, nil
}

func (im *impl) BulkUpsert(c ctx.Ctx, table domain.Table, ops []UpsertOp) (int64, int64, error) {
	defer im.track(c, table, "bulkupsert", nil)()

	if len(ops) == 0 {
		return 0, 0, errEmptyBulk
	}
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		models = append(models, mongo.NewReplaceOneModel().SetFilter(op.Selector).SetReplacement(op.Updater).SetUpsert(true))
	}
	res, err := im.coll(table).BulkWrite(c, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		im.logerr(c, table, "BulkUpsert: BulkWrite failed", err)
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// sortOption turns "field" / "-field" into a mongo sort document
func sortOption(sortFields ...string) bson.D {
	res := bson.D{}
	for _, sort := range sortFields {
		if sort == "" {
			continue
		}
		if sort[0] == '-' {
			res = append(res, bson.E{Key: sort[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: sort, Value: 1})
		}
	}
	return res
}
