/*
Package query wraps https://github.com/mongodb/mongo-go-driver with the
handful of operations repositories need. Tables are domain.Table names.
*/
package query

import (
	"fmt"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// UpsertOp is an upsert operation.
type UpsertOp struct {
	Selector interface{}
	Updater  interface{}
}

// Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	Insert(c ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error)

	// Upsert replaces the matched document or inserts it
	Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sorts by `sort` ("timestamp" ascending, "-timestamp" descending),
	// an empty sort leaves the order to mongo
	Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// SearchNSorts sorts by multiple fields, mind the compound index order
	SearchNSorts(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error

	// Patch $set the update on the first matched document
	// Return ErrNotFound if selector does not match any documents
	Patch(c ctx.Ctx, table domain.Table, selector, update interface{}) error

	// RemoveAll removes every document matching the selector
	RemoveAll(c ctx.Ctx, table domain.Table, selector interface{}) (int64, error)

	// BulkUpsert performs unordered upserts in one round trip
	BulkUpsert(c ctx.Ctx, table domain.Table, ops []UpsertOp) (matchedCnt int64, modifiedCnt int64, err error)
}
