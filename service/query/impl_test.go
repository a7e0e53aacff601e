package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSortOption(t *testing.T) {
	assert.Equal(t, bson.D{}, sortOption())
	assert.Equal(t, bson.D{}, sortOption(""))
	assert.Equal(t,
		bson.D{
			{Key: "blockNumber", Value: -1},
			{Key: "logIndex", Value: 1},
		},
		sortOption("-blockNumber", "logIndex"),
	)
}
