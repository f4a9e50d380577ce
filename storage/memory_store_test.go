package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skin-watcher/models"
)

func sampleListing(id int) *models.Listing {
	kind := "Redline"
	ext := models.FieldTested
	return &models.Listing{OrderID: id, Name: "AK-47", Kind: &kind, Exterior: &ext, Price: 15000}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	require.NoError(t, ms.InsertBatch(ctx, []*models.Listing{sampleListing(2), sampleListing(1)}))

	keys, err := ms.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, keys)

	l, err := ms.Get(ctx, 1)
	require.NoError(t, err)
	l.Price = 1
	require.NoError(t, ms.Update(ctx, l))

	again, err := ms.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Price)

	require.NoError(t, ms.Delete(ctx, 1))
	_, err = ms.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, ms.Delete(ctx, 1), ErrNotFound)
	assert.ErrorIs(t, ms.Update(ctx, sampleListing(99)), ErrNotFound)
}

func TestMemoryStoreInsertBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(sampleListing(1))

	err := ms.InsertBatch(ctx, []*models.Listing{sampleListing(2), sampleListing(1)})
	require.Error(t, err)
	assert.Equal(t, 1, ms.Len())
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	seed := sampleListing(1)
	ms := NewMemoryStore(seed)

	*seed.Kind = "Vulcan"
	got, err := ms.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Redline", *got.Kind)

	*got.Exterior = models.BattleScarred
	again, _ := ms.Get(ctx, 1)
	assert.Equal(t, models.FieldTested, *again.Exterior)
}
