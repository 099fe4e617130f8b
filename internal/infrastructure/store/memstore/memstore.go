// Package memstore is an in-memory document store with optimistic
// transactions. It backs unit tests and local runs; the semantics match the
// postgres-backed docstore.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

const defaultMaxRetries = 5

type document struct {
	data    store.Doc
	version uint64
}

type docRef struct {
	collection string
	key        string
}

// Store implements store.Store backed by process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]*document
	schema      store.Schema
	maxRetries  int
}

// New creates an empty store. The schema declares which fields each
// collection accepts in filters and order criteria.
func New(schema store.Schema) *Store {
	return &Store{
		collections: make(map[string]map[string]*document),
		schema:      schema,
		maxRetries:  defaultMaxRetries,
	}
}

func (s *Store) collection(name string) map[string]*document {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]*document)
		s.collections[name] = col
	}
	return col
}

// Get returns a copy of the document or store.ErrNotFound.
func (s *Store) Get(_ context.Context, collection, key string) (store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
	}
	return doc.data.Clone(), nil
}

// Set writes the document, creating it if absent.
func (s *Store) Set(_ context.Context, collection, key string, doc store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(collection, key, doc)
	return nil
}

func (s *Store) setLocked(collection, key string, doc store.Doc) {
	col := s.collection(collection)
	existing, ok := col[key]
	if !ok {
		col[key] = &document{data: doc.Clone(), version: 1}
		return
	}
	existing.data = doc.Clone()
	existing.version++
}

// Delete removes the document if present.
func (s *Store) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], key)
	return nil
}

// Query returns copies of every document matching the filter.
func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.KeyedDoc, error) {
	return s.scan(collection, nil, filter)
}

// QueryFirst returns the first match or nil when nothing matches.
func (s *Store) QueryFirst(ctx context.Context, collection string, filter store.Filter) (*store.KeyedDoc, error) {
	items, err := s.scan(collection, nil, filter)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// OrderBy returns matches sorted by the given criteria.
func (s *Store) OrderBy(ctx context.Context, collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	items, err := s.scan(collection, orders, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocs(items, orders)
	return items, nil
}

// Paginate windows the matching documents around the query cursor.
func (s *Store) Paginate(ctx context.Context, collection string, q store.PageQuery) (*store.Page, error) {
	items, err := s.scan(collection, q.Orders, q.Filter)
	if err != nil {
		return nil, err
	}
	return store.PaginateSlice(items, q), nil
}

func (s *Store) scan(collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	if err := s.schema.Validate(collection, orders, filter); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]store.KeyedDoc, 0)
	for key, doc := range s.collections[collection] {
		if store.Matches(doc.data, filter) {
			items = append(items, store.KeyedDoc{Key: key, Doc: doc.data.Clone()})
		}
	}
	// Stable order for unsorted queries.
	store.SortDocs(items, nil)
	return items, nil
}

// RunTransaction runs fn against a versioned snapshot and commits its
// buffered writes atomically. A version mismatch at commit re-executes fn,
// up to the retry bound; fn returning an error aborts without retry.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := &memTx{
			store:  s,
			reads:  make(map[docRef]uint64),
			writes: make(map[docRef]store.Doc),
		}
		if err := fn(tx); err != nil {
			return err
		}
		if s.commit(tx) {
			return nil
		}
	}
	return store.ErrConflict
}

func (s *Store) commit(tx *memTx) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ref, version := range tx.reads {
		current := uint64(0)
		if doc, ok := s.collections[ref.collection][ref.key]; ok {
			current = doc.version
		}
		if current != version {
			return false
		}
	}
	for _, ref := range tx.writeOrder {
		doc, ok := tx.writes[ref]
		if !ok || doc == nil {
			delete(s.collections[ref.collection], ref.key)
			continue
		}
		s.setLocked(ref.collection, ref.key, doc)
	}
	return true
}

// NewBatch returns a bulk write scope.
func (s *Store) NewBatch() store.Batch {
	return &batch{store: s}
}

type batch struct {
	store  *Store
	writes []struct {
		ref docRef
		doc store.Doc
	}
}

func (b *batch) Set(collection, key string, doc store.Doc) {
	b.writes = append(b.writes, struct {
		ref docRef
		doc store.Doc
	}{docRef{collection, key}, doc.Clone()})
}

func (b *batch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, w := range b.writes {
		b.store.setLocked(w.ref.collection, w.ref.key, w.doc)
	}
	b.writes = nil
	return nil
}

// memTx is one optimistic transaction attempt: reads record the version of
// every observed document, writes are buffered until commit, and reads see
// the transaction's own writes.
type memTx struct {
	store      *Store
	reads      map[docRef]uint64
	writes     map[docRef]store.Doc
	writeOrder []docRef
}

func (t *memTx) Get(_ context.Context, collection, key string) (store.Doc, error) {
	ref := docRef{collection, key}
	if doc, ok := t.writes[ref]; ok {
		if doc == nil {
			return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
		}
		return doc.Clone(), nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	doc, ok := t.store.collections[collection][key]
	if !ok {
		t.reads[ref] = 0
		return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
	}
	t.reads[ref] = doc.version
	return doc.data.Clone(), nil
}

func (t *memTx) Set(_ context.Context, collection, key string, doc store.Doc) error {
	t.buffer(docRef{collection, key}, doc.Clone())
	return nil
}

func (t *memTx) Delete(_ context.Context, collection, key string) error {
	t.buffer(docRef{collection, key}, nil)
	return nil
}

func (t *memTx) buffer(ref docRef, doc store.Doc) {
	if _, ok := t.writes[ref]; !ok {
		t.writeOrder = append(t.writeOrder, ref)
	}
	t.writes[ref] = doc
}

func (t *memTx) Query(ctx context.Context, collection string, filter store.Filter) ([]store.KeyedDoc, error) {
	return t.scan(collection, nil, filter)
}

func (t *memTx) QueryFirst(ctx context.Context, collection string, filter store.Filter) (*store.KeyedDoc, error) {
	items, err := t.scan(collection, nil, filter)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (t *memTx) OrderBy(ctx context.Context, collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	items, err := t.scan(collection, orders, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocs(items, orders)
	return items, nil
}

func (t *memTx) scan(collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	if err := t.store.schema.Validate(collection, orders, filter); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	items := make([]store.KeyedDoc, 0)
	for key, doc := range t.store.collections[collection] {
		ref := docRef{collection, key}
		if _, ok := t.writes[ref]; ok {
			// Overlaid from the write buffer below.
			continue
		}
		if store.Matches(doc.data, filter) {
			t.reads[ref] = doc.version
			items = append(items, store.KeyedDoc{Key: key, Doc: doc.data.Clone()})
		}
	}
	t.store.mu.RUnlock()
	for _, ref := range t.writeOrder {
		if ref.collection != collection {
			continue
		}
		doc := t.writes[ref]
		if doc != nil && store.Matches(doc, filter) {
			items = append(items, store.KeyedDoc{Key: ref.key, Doc: doc.Clone()})
		}
	}
	store.SortDocs(items, nil)
	return items, nil
}
