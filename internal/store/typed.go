package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is a pointer to a model type that validates itself and takes its
// id from the storage key.
type Record[T any] interface {
	*T
	Validate() error
	SetID(id string)
}

// Decode unmarshals and validates a document into T.
func Decode[T any, P Record[T]](doc Document) (*T, error) {
	var v T
	p := P(&v)
	if err := json.Unmarshal(doc.Data, p); err != nil {
		return nil, &MalformedDocumentError{Path: doc.Path, Err: err}
	}
	p.SetID(doc.ID)
	if err := p.Validate(); err != nil {
		return nil, &MalformedDocumentError{Path: doc.Path, Err: err}
	}
	return &v, nil
}

// GetAs reads and decodes one document. It returns nil, nil when absent.
func GetAs[T any, P Record[T]](ctx context.Context, g Gateway, path string) (*T, error) {
	doc, err := g.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return Decode[T, P](*doc)
}

// ListAs reads and decodes every document in collection, stopping at the
// first malformed one.
func ListAs[T any, P Record[T]](ctx context.Context, g Gateway, collection string) ([]T, error) {
	docs, err := g.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := Decode[T, P](doc)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out = append(out, *v)
	}
	return out, nil
}
