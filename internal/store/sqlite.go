package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

var (
	_ Gateway    = (*SQLiteStore)(nil)
	_ Transactor = (*SQLiteStore)(nil)
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore keeps documents in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	q    querier
	inTx bool
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, q: db}
}

func scanDocument(scanner interface{ Scan(...any) error }) (*Document, error) {
	var d Document
	var data string
	if err := scanner.Scan(&d.Path, &d.Collection, &d.ID, &data); err != nil {
		return nil, err
	}
	d.Data = json.RawMessage(data)
	return &d, nil
}

const documentCols = `path, collection, doc_id, data`

func (s *SQLiteStore) Get(ctx context.Context, path string) (*Document, error) {
	if _, _, err := splitDocPath(path); err != nil {
		return nil, err
	}
	row := s.q.QueryRowContext(ctx, `SELECT `+documentCols+` FROM documents WHERE path = ?`, path)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}
	return d, nil
}

func (s *SQLiteStore) Set(ctx context.Context, path string, payload any) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	data, err := encode("set", path, payload)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO documents (path, collection, doc_id, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		path, collection, id, string(data),
	)
	if err != nil {
		return &WriteError{Op: "set", Path: path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, path string, payload any) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	return s.insert(ctx, "create", path, collection, id, payload)
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, payload any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.insert(ctx, "add", Join(collection, id), collection, id, payload); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) insert(ctx context.Context, op, path, collection, id string, payload any) error {
	data, err := encode(op, path, payload)
	if err != nil {
		return err
	}
	result, err := s.q.ExecContext(ctx,
		`INSERT INTO documents (path, collection, doc_id, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO NOTHING`,
		path, collection, id, string(data),
	)
	if err != nil {
		return &WriteError{Op: op, Path: path, Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &WriteError{Op: op, Path: path, Err: fmt.Errorf("rows affected: %w", err)}
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, path, ErrExists)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+documentCols+` FROM documents WHERE collection = ? ORDER BY seq ASC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// RunInTx runs fn against a transaction-scoped store. Nested calls join the
// outer transaction.
func (s *SQLiteStore) RunInTx(ctx context.Context, fn func(Gateway) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback()

	if err := fn(&SQLiteStore{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Op: "commit tx", Err: err}
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
