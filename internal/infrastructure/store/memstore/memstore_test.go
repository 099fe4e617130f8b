package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

func testSchema() store.Schema {
	return store.Schema{
		"players": {"name", "status", "bid_order", "tags"},
		"users":   {"username", "balance"},
	}
}

func TestGetSetDelete(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	_, err := s.Get(ctx, "players", "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, s.Set(ctx, "players", "p1", store.Doc{"name": "Rohit", "status": "available"}))

	doc, err := s.Get(ctx, "players", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Rohit", doc["name"])

	// The returned document is a copy, not a view into the store.
	doc["name"] = "mutated"
	again, err := s.Get(ctx, "players", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Rohit", again["name"])

	assert.NoError(t, s.Delete(ctx, "players", "p1"))
	_, err = s.Get(ctx, "players", "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQueryAndOrderBy(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		status := "available"
		if i%2 == 0 {
			status = "purchased"
		}
		err := s.Set(ctx, "players", fmt.Sprintf("p%d", i), store.Doc{
			"name":      fmt.Sprintf("Player %d", i),
			"status":    status,
			"bid_order": i,
		})
		assert.NoError(t, err)
	}

	available, err := s.Query(ctx, "players", store.Filter{"status": "available"})
	assert.NoError(t, err)
	assert.Len(t, available, 3)

	first, err := s.QueryFirst(ctx, "players", store.Filter{"status": "purchased"})
	assert.NoError(t, err)
	assert.NotNil(t, first)

	none, err := s.QueryFirst(ctx, "players", store.Filter{"status": "unsold"})
	assert.NoError(t, err)
	assert.Nil(t, none)

	ordered, err := s.OrderBy(ctx, "players", []store.Order{{Field: "bid_order", Desc: true}}, nil)
	assert.NoError(t, err)
	assert.Len(t, ordered, 5)
	assert.Equal(t, "Player 5", ordered[0].Doc["name"])

	_, err = s.Query(ctx, "players", store.Filter{"owner": "a"})
	assert.ErrorIs(t, err, store.ErrInvalidField)
}

func TestPaginate(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	for i := 1; i <= 150; i++ {
		err := s.Set(ctx, "players", fmt.Sprintf("p%03d", i), store.Doc{
			"name":      fmt.Sprintf("Player %d", i),
			"status":    "available",
			"bid_order": i,
		})
		assert.NoError(t, err)
	}

	q := store.PageQuery{
		Orders:   []store.Order{{Field: "bid_order"}},
		Filter:   store.Filter{"status": "available"},
		PageSize: 25,
	}

	var cursor *store.Cursor
	seen := 0
	for pageNo := 0; pageNo < 6; pageNo++ {
		q.Cursor = cursor
		page, err := s.Paginate(ctx, "players", q)
		assert.NoError(t, err)
		assert.Len(t, page.Items, 25)
		assert.Equal(t, pageNo > 0, page.HasPrev)
		assert.Equal(t, pageNo < 5, page.HasNext)
		seen += len(page.Items)
		cursor = page.NextCursor
	}
	assert.Equal(t, 150, seen)
}

func TestTransactionCommit(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 100}))

	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(ctx, "users", "u1")
		if err != nil {
			return err
		}
		doc["balance"] = 80
		if err := tx.Set(ctx, "users", "u1", doc); err != nil {
			return err
		}
		return tx.Set(ctx, "users", "u2", store.Doc{"username": "u2", "balance": 20})
	})
	assert.NoError(t, err)

	u1, err := s.Get(ctx, "users", "u1")
	assert.NoError(t, err)
	assert.Equal(t, 80, u1["balance"])
	u2, err := s.Get(ctx, "users", "u2")
	assert.NoError(t, err)
	assert.Equal(t, 20, u2["balance"])
}

func TestTransactionReadsOwnWrites(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		if err := tx.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 10}); err != nil {
			return err
		}
		doc, err := tx.Get(ctx, "users", "u1")
		if err != nil {
			return err
		}
		assert.Equal(t, 10, doc["balance"])

		items, err := tx.Query(ctx, "users", store.Filter{"username": "u1"})
		if err != nil {
			return err
		}
		assert.Len(t, items, 1)
		return nil
	})
	assert.NoError(t, err)
}

func TestTransactionErrorAborts(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	attempts := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempts++
		if err := tx.Set(ctx, "users", "u1", store.Doc{"username": "u1"}); err != nil {
			return err
		}
		return fmt.Errorf("business rule violated")
	})
	assert.EqualError(t, err, "business rule violated")
	assert.Equal(t, 1, attempts)

	_, err = s.Get(ctx, "users", "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransactionRetriesOnConflict(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 0}))

	attempts := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempts++
		doc, err := tx.Get(ctx, "users", "u1")
		if err != nil {
			return err
		}
		if attempts == 1 {
			// A competing writer lands between read and commit.
			assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 5}))
		}
		doc["balance"] = toInt(doc["balance"]) + 1
		return tx.Set(ctx, "users", "u1", doc)
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)

	doc, err := s.Get(ctx, "users", "u1")
	assert.NoError(t, err)
	assert.Equal(t, 6, toInt(doc["balance"]))
}

func TestTransactionConflictExhaustsRetries(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 0}))

	attempts := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempts++
		if _, err := tx.Get(ctx, "users", "u1"); err != nil {
			return err
		}
		// Invalidate the snapshot on every attempt.
		assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": attempts}))
		return tx.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": -1})
	})
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, defaultMaxRetries, attempts)
}

func TestTransactionMissingDocVersioned(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	// Reading an absent document still pins its version: a concurrent
	// create must conflict the transaction.
	attempts := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempts++
		_, err := tx.Get(ctx, "users", "u1")
		if attempts == 1 {
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1"}))
		} else {
			assert.NoError(t, err)
		}
		return tx.Set(ctx, "users", "u2", store.Doc{"username": "u2"})
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestConcurrentIncrements(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "users", "u1", store.Doc{"username": "u1", "balance": 0}))

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				for {
					err := s.RunTransaction(ctx, func(tx store.Tx) error {
						doc, err := tx.Get(ctx, "users", "u1")
						if err != nil {
							return err
						}
						doc["balance"] = toInt(doc["balance"]) + 1
						return tx.Set(ctx, "users", "u1", doc)
					})
					if err == nil {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	doc, err := s.Get(ctx, "users", "u1")
	assert.NoError(t, err)
	assert.Equal(t, writers*10, toInt(doc["balance"]))
}

func TestBatch(t *testing.T) {
	s := New(testSchema())
	ctx := context.Background()

	b := s.NewBatch()
	for i := 1; i <= 3; i++ {
		b.Set("players", fmt.Sprintf("p%d", i), store.Doc{"name": fmt.Sprintf("Player %d", i), "status": "available"})
	}
	assert.NoError(t, b.Commit(ctx))

	items, err := s.Query(ctx, "players", nil)
	assert.NoError(t, err)
	assert.Len(t, items, 3)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
