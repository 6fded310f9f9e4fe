package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Document is a raw record in a document collection
type Document struct {
	ID   string
	Data string
}

// DocumentStore is the document-database collaborator the product catalog is
// built on: whole-document reads and writes grouped by collection name.
type DocumentStore interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Add(ctx context.Context, collection, id, data string) error
	Update(ctx context.Context, collection, id, data string) error
	Delete(ctx context.Context, collection, id string) error
}

// SQLiteDocumentStore stores documents in the documents table, one row per
// (collection, id) pair with the payload as a JSON string.
type SQLiteDocumentStore struct {
	db *sql.DB
}

// NewSQLiteDocumentStore creates a document store backed by the given database
func NewSQLiteDocumentStore(db *sql.DB) *SQLiteDocumentStore {
	return &SQLiteDocumentStore{db: db}
}

// ListAll retrieves every document in a collection, newest first
func (s *SQLiteDocumentStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at DESC", collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	return documents, nil
}

// Get retrieves a single document by id
func (s *SQLiteDocumentStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	doc := Document{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id).Scan(&doc.Data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", ErrKeyNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return &doc, nil
}

// Add inserts a new document
func (s *SQLiteDocumentStore) Add(ctx context.Context, collection, id, data string) error {
	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Update replaces the payload of an existing document
func (s *SQLiteDocumentStore) Update(ctx context.Context, collection, id, data string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?",
		data, collection, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrKeyNotFound, collection, id)
	}
	return nil
}

// Delete removes a document
func (s *SQLiteDocumentStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrKeyNotFound, collection, id)
	}
	return nil
}
