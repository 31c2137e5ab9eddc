package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransactionStore(t *testing.T, maxBytes int) *recordStore[Transaction] {
	t.Helper()
	return newRecordStore[Transaction](newTestRedis(t), "test:transactions", maxBytes, newTestLogger())
}

func TestStoreListEmpty(t *testing.T) {
	store := newTestTransactionStore(t, 0)
	assert.Empty(t, store.List(context.Background()))
}

func TestStoreAddPrependsNewestFirst(t *testing.T) {
	store := newTestTransactionStore(t, 0)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Add(ctx, Transaction{ID: id})
		require.NoError(t, err)
	}

	records := store.List(ctx)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "a", records[2].ID)
}

func TestStoreDeleteRemovesExactlyOne(t *testing.T) {
	store := newTestTransactionStore(t, 0)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Add(ctx, Transaction{ID: id})
		require.NoError(t, err)
	}

	require.NoError(t, store.Delete(ctx, "b"))

	records := store.List(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestStoreDeleteUnknownIDIsNoop(t *testing.T) {
	store := newTestTransactionStore(t, 0)
	ctx := context.Background()

	_, err := store.Add(ctx, Transaction{ID: "a"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "missing"))
	assert.Len(t, store.List(ctx), 1)
}

func TestStoreCorruptDataTreatedAsEmpty(t *testing.T) {
	rdb := newTestRedis(t)
	store := newRecordStore[Transaction](rdb, "test:corrupt", 0, newTestLogger())
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, "test:corrupt", "{not json", 0).Err())
	assert.Empty(t, store.List(ctx))

	// and the collection is writable again afterwards
	_, err := store.Add(ctx, Transaction{ID: "a"})
	require.NoError(t, err)
	assert.Len(t, store.List(ctx), 1)
}

func TestStoreQuotaRetriesWithShrunkRecord(t *testing.T) {
	rdb := newTestRedis(t)
	store := newRecordStore[JournalEntry](rdb, "test:journal", 512, newTestLogger())
	store.shrink = func(e JournalEntry) (JournalEntry, bool) {
		if e.ImageData == "" {
			return e, false
		}
		e.ImageData = ""
		return e, true
	}
	ctx := context.Background()

	oversized := make([]byte, 4096)
	for i := range oversized {
		oversized[i] = 'x'
	}

	entry, err := store.Add(ctx, JournalEntry{ID: "big", Content: "hello", ImageData: string(oversized)})
	require.NoError(t, err)
	assert.Empty(t, entry.ImageData, "image payload should be stripped on quota retry")
	assert.Equal(t, "hello", entry.Content)

	records := store.List(ctx)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].ImageData)
}

func TestStoreQuotaFailsWithoutShrinkableRecord(t *testing.T) {
	store := newTestTransactionStore(t, 64)
	ctx := context.Background()

	long := make([]byte, 1024)
	for i := range long {
		long[i] = 'd'
	}

	_, err := store.Add(ctx, Transaction{ID: "a", Description: string(long)})
	require.Error(t, err)
	assert.Empty(t, store.List(ctx))
}

func TestStoreUpdateLeavesOrderUntouched(t *testing.T) {
	store := newTestTransactionStore(t, 0)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Add(ctx, Transaction{ID: id, Amount: 1})
		require.NoError(t, err)
	}

	updated, err := store.Update(ctx, "b", func(tx Transaction) (Transaction, error) {
		tx.Amount = 42
		return tx, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.Amount)

	records := store.List(ctx)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, 42.0, records[1].Amount)
	assert.Equal(t, "a", records[2].ID)
}

func TestStoreUpdateUnknownID(t *testing.T) {
	store := newTestTransactionStore(t, 0)

	_, err := store.Update(context.Background(), "missing", func(tx Transaction) (Transaction, error) {
		return tx, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
