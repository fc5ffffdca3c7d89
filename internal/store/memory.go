package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var _ Gateway = (*MemoryStore)(nil)

// MemoryStore is an in-memory Gateway for tests and ephemeral runs. It has
// no transactions: each write lands immediately. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]Document
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (*Document, error) {
	if _, _, err := splitDocPath(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	d.Data = append(json.RawMessage(nil), d.Data...)
	return &d, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, payload any) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	data, err := encode("set", path, payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(Document{Path: path, Collection: collection, ID: id, Data: data})
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, path string, payload any) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	return s.insert("create", Document{Path: path, Collection: collection, ID: id}, payload)
}

func (s *MemoryStore) Add(ctx context.Context, collection string, payload any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.insert("add", Document{Path: Join(collection, id), Collection: collection, ID: id}, payload); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) insert(op string, d Document, payload any) error {
	data, err := encode(op, d.Path, payload)
	if err != nil {
		return err
	}
	d.Data = data

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[d.Path]; ok {
		return fmt.Errorf("%s %s: %w", op, d.Path, ErrExists)
	}
	s.put(d)
	return nil
}

// put must be called with mu held.
func (s *MemoryStore) put(d Document) {
	if _, ok := s.docs[d.Path]; !ok {
		s.order = append(s.order, d.Path)
	}
	s.docs[d.Path] = d
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for _, p := range s.order {
		d := s.docs[p]
		if d.Collection == collection {
			d.Data = append(json.RawMessage(nil), d.Data...)
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
