package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMemoryGetOneMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.GetOne(context.Background(), "packages", "1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.ErrorIs(t, m.Update(ctx, "orders", "1", bson.M{"status": "confirmed"}), ErrNotFound)
	require.ErrorIs(t, m.Delete(ctx, "orders", "1"), ErrNotFound)
}

func TestMemoryStoredDocumentsDoNotAliasCallerMaps(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	data := bson.M{"title": "a"}
	require.NoError(t, m.Set(ctx, "packages", "1", data))
	data["title"] = "changed"

	stored, err := m.GetOne(ctx, "packages", "1")
	require.NoError(t, err)
	require.Equal(t, "a", stored["title"])

	stored["title"] = "changed again"
	again, err := m.GetOne(ctx, "packages", "1")
	require.NoError(t, err)
	require.Equal(t, "a", again["title"])
}

func TestMemoryCommitAppliesSetsAndDeletes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "packages", "1", bson.M{"title": "a"}))
	require.NoError(t, m.Set(ctx, "packages", "2", bson.M{"title": "b"}))

	err := m.Commit(ctx, []BatchOp{
		DeleteOp("packages", "1"),
		SetOp("packages", "2", bson.M{"title": "b2"}),
		SetOp("packages", "3", bson.M{"title": "c"}),
	})
	require.NoError(t, err)

	docs, err := m.GetAll(ctx, "packages")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "2", docs[0].ID)
	require.Equal(t, "b2", docs[0].Data["title"])
	require.Equal(t, "3", docs[1].ID)
}

func TestMemoryMutateCreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Mutate(ctx, "analytics", "2026-03-05", func(current bson.M, exists bool) (bson.M, error) {
		require.False(t, exists)
		require.Nil(t, current)
		return bson.M{"count": int64(1)}, nil
	})
	require.NoError(t, err)

	doc, err := m.GetOne(ctx, "analytics", "2026-03-05")
	require.NoError(t, err)
	require.EqualValues(t, 1, doc["count"])
}

func TestMemoryMutatePropagatesCallbackError(t *testing.T) {
	m := NewMemory()
	wanted := errors.New("nope")

	err := m.Mutate(context.Background(), "analytics", "x", func(current bson.M, exists bool) (bson.M, error) {
		return nil, wanted
	})
	require.ErrorIs(t, err, wanted)

	_, err = m.GetOne(context.Background(), "analytics", "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMutateConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const writers = 50
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Mutate(ctx, "counters", "hits", func(current bson.M, exists bool) (bson.M, error) {
				if !exists {
					return bson.M{"count": int64(1)}, nil
				}
				count, _ := current["count"].(int64)
				return bson.M{"count": count + 1}, nil
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	doc, err := m.GetOne(ctx, "counters", "hits")
	require.NoError(t, err)
	require.EqualValues(t, writers, doc["count"])
}
