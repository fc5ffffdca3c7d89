package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExists is returned by Create when the document is already present.
	ErrExists = errors.New("document already exists")
	// ErrInvalidPath is returned for paths that do not name a document or collection.
	ErrInvalidPath = errors.New("invalid path")
	// ErrMalformedDocument matches *MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed document")
)

// Document is a stored record addressed by a slash-separated path such as
// "families/default-family/members/emma".
type Document struct {
	Path       string          `json:"path"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// Gateway is the read/write contract over a document store. Each write is
// independent; callers needing atomicity check for Transactor.
type Gateway interface {
	// Get returns nil, nil when the document does not exist.
	Get(ctx context.Context, path string) (*Document, error)
	// Set writes payload at path, replacing any existing document.
	Set(ctx context.Context, path string, payload any) error
	// Add stores payload under a generated id in collection and returns the id.
	Add(ctx context.Context, collection string, payload any) (string, error)
	// Create writes payload at path only if nothing is there yet.
	Create(ctx context.Context, path string, payload any) error
	// List returns the documents directly under collection in insertion order.
	List(ctx context.Context, collection string) ([]Document, error)
}

// Transactor is implemented by gateways that can group writes atomically.
// A non-nil error from fn rolls back every write made through its Gateway.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(Gateway) error) error
}

// WriteError reports a failed write to the store.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// MalformedDocumentError reports a stored document that failed to decode or validate.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

func (e *MalformedDocumentError) Is(target error) bool { return target == ErrMalformedDocument }

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// splitDocPath returns the collection and id of a document path. Document
// paths have an even number of non-empty segments.
func splitDocPath(path string) (collection, id string, err error) {
	segs := strings.Split(path, "/")
	if len(segs) < 2 || len(segs)%2 != 0 || hasEmpty(segs) {
		return "", "", fmt.Errorf("document %q: %w", path, ErrInvalidPath)
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

func checkCollection(collection string) error {
	segs := strings.Split(collection, "/")
	if len(segs)%2 != 1 || hasEmpty(segs) {
		return fmt.Errorf("collection %q: %w", collection, ErrInvalidPath)
	}
	return nil
}

func hasEmpty(segs []string) bool {
	for _, s := range segs {
		if s == "" {
			return true
		}
	}
	return false
}

func encode(op, path string, payload any) ([]byte, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, &WriteError{Op: op, Path: path, Err: errors.New("invalid JSON payload")}
		}
		return append([]byte(nil), raw...), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &WriteError{Op: op, Path: path, Err: fmt.Errorf("encode payload: %w", err)}
	}
	return data, nil
}
