package vectordb

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens/internal/port"
)

func TestCreateCollectionIdempotent(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	created, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)
	assert.False(t, created, "second create of same collection must be a no-op")
}

func TestCreateCollectionResetDropsVectors(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	_, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)
	require.NoError(t, db.InsertOne(ctx, "c1", "hello", []float32{1, 0, 0}, nil, "0"))

	created, err := db.CreateCollection(ctx, "c1", 3, true)
	require.NoError(t, err)
	assert.True(t, created, "reset recreates the collection")

	results, err := db.SearchByVector(ctx, "c1", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInsertManyValidation(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	err := db.InsertMany(ctx, "missing", []string{"a"}, [][]float32{{1, 0, 0}}, nil, nil, 10)
	assert.ErrorIs(t, err, port.ErrCollectionNotFound)

	_, err = db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)

	err = db.InsertMany(ctx, "c1", []string{"a", "b"}, [][]float32{{1, 0, 0}}, nil, nil, 10)
	assert.ErrorIs(t, err, port.ErrLengthMismatch)

	err = db.InsertMany(ctx, "c1", []string{"a"}, [][]float32{{1, 0, 0}}, nil, []string{"0", "1"}, 10)
	assert.ErrorIs(t, err, port.ErrLengthMismatch)
}

func TestInsertManyOverwritesByRecordID(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	_, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)

	err = db.InsertMany(ctx, "c1", []string{"old"}, [][]float32{{1, 0, 0}}, nil, []string{"7"}, 10)
	require.NoError(t, err)
	err = db.InsertMany(ctx, "c1", []string{"new"}, [][]float32{{1, 0, 0}}, nil, []string{"7"}, 10)
	require.NoError(t, err)

	info, err := db.CollectionInfo(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.PointsCount)

	results, err := db.SearchByVector(ctx, "c1", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Text)
}

func TestInsertManyDefaultRecordIDsArePerCall(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	_, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)

	err = db.InsertMany(ctx, "c1", []string{"a", "b"}, [][]float32{{1, 0, 0}, {0, 1, 0}}, nil, nil, 10)
	require.NoError(t, err)
	// omitted IDs restart at zero, so this call overwrites the first one
	err = db.InsertMany(ctx, "c1", []string{"c", "d"}, [][]float32{{0, 0, 1}, {1, 1, 0}}, nil, nil, 10)
	require.NoError(t, err)

	info, err := db.CollectionInfo(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.PointsCount)
}

func TestSearchByVectorOrderingAndLimit(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	_, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)

	vectors := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	for i, v := range vectors {
		require.NoError(t, db.InsertOne(ctx, "c1", fmt.Sprintf("doc-%d", i), v, nil, fmt.Sprintf("%d", i)))
	}

	results, err := db.SearchByVector(ctx, "c1", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "doc-0", results[0].Text)
	assert.Equal(t, "doc-1", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchByVectorMissingCollection(t *testing.T) {
	db := NewMemoryDB()

	results, err := db.SearchByVector(context.Background(), "missing", []float32{1, 0, 0}, 5)
	require.NoError(t, err, "missing collection is an empty result, not an error")
	assert.Empty(t, results)
}

func TestDeleteCollectionNoOpWhenAbsent(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.DeleteCollection(ctx, "missing"))

	_, err := db.CreateCollection(ctx, "c1", 3, false)
	require.NoError(t, err)
	require.NoError(t, db.DeleteCollection(ctx, "c1"))

	exists, err := db.CollectionExists(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListCollectionsSorted(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	for _, name := range []string{"collection_b", "collection_a"} {
		_, err := db.CreateCollection(ctx, name, 3, false)
		require.NoError(t, err)
	}

	names, err := db.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"collection_a", "collection_b"}, names)
}
