package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "never-written")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "orders", `[{"id":"1"}]`))

	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.Remove(ctx, "orders"))
	_, err = store.Get(ctx, "orders")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreSimulatedFailures(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.FailWrites = true
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), ErrWrite)
	store.FailWrites = false

	require.NoError(t, store.Set(ctx, "k", "v"))

	store.FailReads = true
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrRead)
}

func TestSerializedStoreUpdateMissingKey(t *testing.T) {
	store := NewSerializedStore(NewMemoryStore())
	ctx := context.Background()

	var seen string
	err := store.Update(ctx, "orders", func(current string) (string, error) {
		seen = current
		return `["first"]`, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "", seen, "missing key should surface as empty string")

	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `["first"]`, value)
}

func TestSerializedStoreUpdateFnErrorLeavesKeyUntouched(t *testing.T) {
	store := NewSerializedStore(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "orders", "original"))

	wantErr := fmt.Errorf("parse failure")
	err := store.Update(ctx, "orders", func(current string) (string, error) {
		return "", wantErr
	})
	assert.Equal(t, wantErr, err)

	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "original", value, "failed update must not modify the key")
}

func TestSerializedStoreUpdateWriteFailure(t *testing.T) {
	memory := NewMemoryStore()
	store := NewSerializedStore(memory)
	ctx := context.Background()

	memory.FailWrites = true
	err := store.Update(ctx, "orders", func(current string) (string, error) {
		return "value", nil
	})
	assert.ErrorIs(t, err, ErrWrite)
	assert.Equal(t, 0, memory.Len())
}

// Concurrent read-modify-write cycles on the same key must all land; a
// racing last-write-wins implementation would lose appends.
func TestSerializedStoreConcurrentUpdates(t *testing.T) {
	store := NewSerializedStore(NewMemoryStore())
	ctx := context.Background()

	const writers = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := store.Update(ctx, "items", func(current string) (string, error) {
				var items []int
				if current != "" {
					if err := json.Unmarshal([]byte(current), &items); err != nil {
						return "", err
					}
				}
				items = append(items, n)
				data, err := json.Marshal(items)
				if err != nil {
					return "", err
				}
				return string(data), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	value, err := store.Get(ctx, "items")
	require.NoError(t, err)

	var items []int
	require.NoError(t, json.Unmarshal([]byte(value), &items))
	assert.Len(t, items, writers)
}

func TestSerializedStoreIndependentKeys(t *testing.T) {
	store := NewSerializedStore(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Remove(ctx, "a"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}
