package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocermart-backend/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a different empty database
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, "orders")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "orders", `[]`))

	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)
}

func TestSQLiteStoreSetReplaces(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "orders", "v1"))
	require.NoError(t, store.Set(ctx, "orders", "v2"))

	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestSQLiteStoreRemove(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "orders", "v"))
	require.NoError(t, store.Remove(ctx, "orders"))

	_, err := store.Get(ctx, "orders")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Removing again is not an error
	assert.NoError(t, store.Remove(ctx, "orders"))
}

func TestSQLiteDocumentStoreCRUD(t *testing.T) {
	docs := NewSQLiteDocumentStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, "products", "p1", `{"name":"Apples"}`))
	require.NoError(t, docs.Add(ctx, "products", "p2", `{"name":"Milk"}`))

	doc, err := docs.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Apples"}`, doc.Data)

	all, err := docs.ListAll(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, docs.Update(ctx, "products", "p1", `{"name":"Green Apples"}`))
	doc, err = docs.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Green Apples"}`, doc.Data)

	require.NoError(t, docs.Delete(ctx, "products", "p1"))
	_, err = docs.Get(ctx, "products", "p1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteDocumentStoreMissingDocuments(t *testing.T) {
	docs := NewSQLiteDocumentStore(setupTestDB(t))
	ctx := context.Background()

	_, err := docs.Get(ctx, "products", "ghost")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.ErrorIs(t, docs.Update(ctx, "products", "ghost", "{}"), ErrKeyNotFound)
	assert.ErrorIs(t, docs.Delete(ctx, "products", "ghost"), ErrKeyNotFound)
}

func TestSQLiteDocumentStoreCollectionsAreIsolated(t *testing.T) {
	docs := NewSQLiteDocumentStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, "products", "1", "{}"))
	require.NoError(t, docs.Add(ctx, "settings", "1", "{}"))

	all, err := docs.ListAll(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
