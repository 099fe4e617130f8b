package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors returned by store implementations.
var (
	// ErrNotFound is returned when a document key does not exist in a collection.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidField is returned when a filter or order references a field
	// that is not registered in the collection schema.
	ErrInvalidField = errors.New("invalid field")

	// ErrConflict is returned when a transaction could not commit within the
	// retry bound because another writer modified one of its snapshot reads.
	ErrConflict = errors.New("transaction conflict")
)

// Doc is a schemaless document, the unit of storage for every collection.
type Doc map[string]any

// Clone returns a deep copy of the document so callers can never alias
// store-internal state.
func (d Doc) Clone() Doc {
	if d == nil {
		return nil
	}
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, e := range val {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// KeyedDoc pairs a document with its key.
type KeyedDoc struct {
	Key string
	Doc Doc
}

// Filter is a set of equality conditions, field name to expected value.
// A filter value matched against a list field checks membership instead.
type Filter map[string]any

// Order is a single sort criterion.
type Order struct {
	Field string
	Desc  bool
}

// Direction selects which way Paginate walks relative to the cursor.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Cursor is an opaque pagination boundary: the boundary document's key and
// its sort field values in order-criteria order.
type Cursor struct {
	Key    string `json:"key"`
	Values []any  `json:"values"`
}

// Encode serializes the cursor for transport.
func (c *Cursor) Encode() string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a cursor produced by Encode.
func DecodeCursor(s string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return &c, nil
}

// PageQuery describes one paginated read.
type PageQuery struct {
	Orders    []Order
	Filter    Filter
	PageSize  int
	Cursor    *Cursor
	Direction Direction
}

// Page is one window of a paginated result set. HasNext and HasPrev are
// determined by probing for one item beyond the requested window.
type Page struct {
	Items      []KeyedDoc
	HasNext    bool
	HasPrev    bool
	NextCursor *Cursor
	PrevCursor *Cursor
}

// Accessor is the read/write surface shared by a Store and a transaction
// view. Inside a transaction, writes are buffered until commit and reads
// observe the transaction's own buffered writes.
type Accessor interface {
	Get(ctx context.Context, collection, key string) (Doc, error)
	Set(ctx context.Context, collection, key string, doc Doc) error
	Delete(ctx context.Context, collection, key string) error
	Query(ctx context.Context, collection string, filter Filter) ([]KeyedDoc, error)
	QueryFirst(ctx context.Context, collection string, filter Filter) (*KeyedDoc, error)
	OrderBy(ctx context.Context, collection string, orders []Order, filter Filter) ([]KeyedDoc, error)
}

// Tx is the view handed to a transaction body.
type Tx interface {
	Accessor
}

// Batch accumulates writes and commits them in a single scope. It is meant
// for bulk upload, not for transactional invariants.
type Batch interface {
	Set(collection, key string, doc Doc)
	Commit(ctx context.Context) error
}

// Store is the document store contract the engine is written against.
//
// RunTransaction executes fn against an optimistic snapshot: reads record
// document versions, writes are buffered, and commit validates that no read
// document changed. On conflict the whole fn is re-executed, so fn must be
// free of side effects outside the transaction. An error returned by fn
// aborts without retrying.
type Store interface {
	Accessor
	Paginate(ctx context.Context, collection string, q PageQuery) (*Page, error)
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	NewBatch() Batch
}

// Schema maps a collection name to the fields that may appear in filters
// and order criteria.
type Schema map[string][]string

// Allows reports whether field is queryable in collection.
func (s Schema) Allows(collection, field string) bool {
	fields, ok := s[collection]
	if !ok {
		return false
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate checks every filter and order field against the schema.
func (s Schema) Validate(collection string, orders []Order, filter Filter) error {
	for field := range filter {
		if !s.Allows(collection, field) {
			return fmt.Errorf("%w: %s.%s", ErrInvalidField, collection, field)
		}
	}
	for _, o := range orders {
		if !s.Allows(collection, o.Field) {
			return fmt.Errorf("%w: %s.%s", ErrInvalidField, collection, o.Field)
		}
	}
	return nil
}
