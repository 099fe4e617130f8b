// Package docstore is the postgres-backed document store. Documents live in
// a single table keyed by (collection, doc_key) with a version column that
// backs optimistic transactions. Query semantics match the in-memory store.
package docstore

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

const defaultMaxRetries = 5

// errTxRetry rolls the commit transaction back on a version mismatch so the
// caller can re-execute the transaction body.
var errTxRetry = errors.New("stale read, retry transaction")

// JSONB is a document payload that GORM marshals to a jsonb column.
type JSONB map[string]any

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

type documentRow struct {
	Collection string `gorm:"primaryKey;column:collection;type:varchar(64)"`
	Key        string `gorm:"primaryKey;column:doc_key;type:varchar(128)"`
	Data       JSONB  `gorm:"column:data;type:jsonb;not null"`
	Version    int64  `gorm:"column:version;not null;default:1"`
}

// TableName specifies the table name for documentRow
func (documentRow) TableName() string {
	return "documents"
}

type docRef struct {
	collection string
	key        string
}

// Store implements store.Store on top of a postgres documents table.
type Store struct {
	db         *gorm.DB
	schema     store.Schema
	maxRetries int
}

// New creates a store over an open connection. The schema declares which
// fields each collection accepts in filters and order criteria.
func New(db *gorm.DB, schema store.Schema) *Store {
	return &Store{db: db, schema: schema, maxRetries: defaultMaxRetries}
}

// Get returns the document or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, key string) (store.Doc, error) {
	row, err := s.getRow(ctx, s.db, collection, key, false)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
	}
	return store.Doc(row.Data), nil
}

func (s *Store) getRow(ctx context.Context, db *gorm.DB, collection, key string, forUpdate bool) (*documentRow, error) {
	query := db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row documentRow
	result := query.Where("collection = ? AND doc_key = ?", collection, key).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &row, nil
}

// Set writes the document, creating it if absent.
func (s *Store) Set(ctx context.Context, collection, key string, doc store.Doc) error {
	return upsert(s.db.WithContext(ctx), collection, key, doc)
}

func upsert(db *gorm.DB, collection, key string, doc store.Doc) error {
	row := documentRow{Collection: collection, Key: key, Data: JSONB(doc), Version: 1}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":    JSONB(doc),
			"version": gorm.Expr("documents.version + 1"),
		}),
	}).Create(&row).Error
}

// Delete removes the document if present.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		Delete(&documentRow{}).Error
}

// Query returns every document matching the filter.
func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.KeyedDoc, error) {
	items, _, err := s.scan(ctx, collection, nil, filter)
	return items, err
}

// QueryFirst returns the first match or nil when nothing matches.
func (s *Store) QueryFirst(ctx context.Context, collection string, filter store.Filter) (*store.KeyedDoc, error) {
	items, _, err := s.scan(ctx, collection, nil, filter)
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
	items, _, err := s.scan(ctx, collection, orders, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocs(items, orders)
	return items, nil
}

// Paginate windows the matching documents around the query cursor.
func (s *Store) Paginate(ctx context.Context, collection string, q store.PageQuery) (*store.Page, error) {
	items, _, err := s.scan(ctx, collection, q.Orders, q.Filter)
	if err != nil {
		return nil, err
	}
	return store.PaginateSlice(items, q), nil
}

// scan loads a collection and filters it in process. Document fields are
// schemaless jsonb, so filtering happens on the decoded payload rather than
// in SQL; the versions of matched rows are reported for transaction reads.
func (s *Store) scan(ctx context.Context, collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, map[docRef]int64, error) {
	if err := s.schema.Validate(collection, orders, filter); err != nil {
		return nil, nil, err
	}
	var rows []documentRow
	result := s.db.WithContext(ctx).Where("collection = ?", collection).Find(&rows)
	if result.Error != nil {
		return nil, nil, result.Error
	}
	items := make([]store.KeyedDoc, 0, len(rows))
	versions := make(map[docRef]int64, len(rows))
	for _, row := range rows {
		doc := store.Doc(row.Data)
		if store.Matches(doc, filter) {
			items = append(items, store.KeyedDoc{Key: row.Key, Doc: doc})
			versions[docRef{collection, row.Key}] = row.Version
		}
	}
	store.SortDocs(items, nil)
	return items, versions, nil
}

// RunTransaction runs fn against a versioned snapshot and commits its
// buffered writes atomically. A version mismatch at commit re-executes fn,
// up to the retry bound; fn returning an error aborts without retry.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := &docTx{
			store:  s,
			reads:  make(map[docRef]int64),
			writes: make(map[docRef]store.Doc),
		}
		if err := fn(tx); err != nil {
			return err
		}
		committed, err := s.commit(ctx, tx)
		if err != nil {
			return err
		}
		if committed {
			return nil
		}
	}
	return store.ErrConflict
}

// commit validates every recorded read version under row locks, then applies
// the buffered writes. A stale read rolls everything back and reports no
// commit so the caller retries.
func (s *Store) commit(ctx context.Context, tx *docTx) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		for ref, version := range tx.reads {
			row, err := s.getRow(ctx, dbTx, ref.collection, ref.key, true)
			if err != nil {
				return err
			}
			current := int64(0)
			if row != nil {
				current = row.Version
			}
			if current != version {
				return errTxRetry
			}
		}
		for _, ref := range tx.writeOrder {
			doc := tx.writes[ref]
			if doc == nil {
				result := dbTx.Where("collection = ? AND doc_key = ?", ref.collection, ref.key).
					Delete(&documentRow{})
				if result.Error != nil {
					return result.Error
				}
				continue
			}
			if err := upsert(dbTx, ref.collection, ref.key, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errTxRetry) {
		return false, nil
	}
	return err == nil, err
}

// NewBatch returns a bulk write scope backed by a single SQL transaction.
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

func (b *batch) Commit(ctx context.Context) error {
	err := b.store.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		for _, w := range b.writes {
			if err := upsert(dbTx, w.ref.collection, w.ref.key, w.doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.writes = nil
	return nil
}

// docTx is one optimistic transaction attempt: reads record the version of
// every observed document, writes are buffered until commit, and reads see
// the transaction's own writes.
type docTx struct {
	store      *Store
	reads      map[docRef]int64
	writes     map[docRef]store.Doc
	writeOrder []docRef
}

func (t *docTx) Get(ctx context.Context, collection, key string) (store.Doc, error) {
	ref := docRef{collection, key}
	if doc, ok := t.writes[ref]; ok {
		if doc == nil {
			return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
		}
		return doc.Clone(), nil
	}
	row, err := t.store.getRow(ctx, t.store.db, collection, key, false)
	if err != nil {
		return nil, err
	}
	if row == nil {
		t.reads[ref] = 0
		return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, key)
	}
	t.reads[ref] = row.Version
	return store.Doc(row.Data), nil
}

func (t *docTx) Set(_ context.Context, collection, key string, doc store.Doc) error {
	t.buffer(docRef{collection, key}, doc.Clone())
	return nil
}

func (t *docTx) Delete(_ context.Context, collection, key string) error {
	t.buffer(docRef{collection, key}, nil)
	return nil
}

func (t *docTx) buffer(ref docRef, doc store.Doc) {
	if _, ok := t.writes[ref]; !ok {
		t.writeOrder = append(t.writeOrder, ref)
	}
	t.writes[ref] = doc
}

func (t *docTx) Query(ctx context.Context, collection string, filter store.Filter) ([]store.KeyedDoc, error) {
	return t.scan(ctx, collection, nil, filter)
}

func (t *docTx) QueryFirst(ctx context.Context, collection string, filter store.Filter) (*store.KeyedDoc, error) {
	items, err := t.scan(ctx, collection, nil, filter)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (t *docTx) OrderBy(ctx context.Context, collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	items, err := t.scan(ctx, collection, orders, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocs(items, orders)
	return items, nil
}

func (t *docTx) scan(ctx context.Context, collection string, orders []store.Order, filter store.Filter) ([]store.KeyedDoc, error) {
	stored, versions, err := t.store.scan(ctx, collection, orders, filter)
	if err != nil {
		return nil, err
	}
	items := make([]store.KeyedDoc, 0, len(stored))
	for _, item := range stored {
		ref := docRef{collection, item.Key}
		if _, ok := t.writes[ref]; ok {
			// Overlaid from the write buffer below.
			continue
		}
		t.reads[ref] = versions[ref]
		items = append(items, item)
	}
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
