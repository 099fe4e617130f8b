package repository

import (
	"context"
	"errors"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// BidRepository implements domain.BidRepository
type BidRepository struct {
	s store.Store
	a store.Accessor
}

// NewBidRepository creates a new bid repository
func NewBidRepository(s store.Store) domain.BidRepository {
	return &BidRepository{s: s, a: s}
}

// WithTx binds the repository to an open transaction view
func (r *BidRepository) WithTx(tx store.Tx) domain.BidRepository {
	return &BidRepository{s: r.s, a: tx}
}

// Get retrieves a bid by document key, returning nil when absent
func (r *BidRepository) Get(ctx context.Context, key string) (*domain.Bid, error) {
	doc, err := r.a.Get(ctx, BidsCollection, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var bid domain.Bid
	if err := fromDoc(doc, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// CreateIfAbsent writes the bid unless one already exists for the player,
// in which case the existing bid is returned untouched.
func (r *BidRepository) CreateIfAbsent(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	existing, err := r.Get(ctx, bid.Key())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	doc, err := toDoc(bid)
	if err != nil {
		return nil, err
	}
	if err := r.a.Set(ctx, BidsCollection, bid.Key(), doc); err != nil {
		return nil, err
	}
	return bid, nil
}

// Update overwrites an existing bid
func (r *BidRepository) Update(ctx context.Context, bid *domain.Bid) error {
	doc, err := toDoc(bid)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, BidsCollection, bid.Key(), doc)
}

// GetAll retrieves every bid
func (r *BidRepository) GetAll(ctx context.Context) ([]*domain.Bid, error) {
	items, err := r.a.Query(ctx, BidsCollection, nil)
	if err != nil {
		return nil, err
	}
	return decodeBids(items)
}

// Paginate returns one window of bids for the given page query
func (r *BidRepository) Paginate(ctx context.Context, q store.PageQuery) (*domain.BidPage, error) {
	page, err := r.s.Paginate(ctx, BidsCollection, q)
	if err != nil {
		return nil, err
	}
	bids, err := decodeBids(page.Items)
	if err != nil {
		return nil, err
	}
	return &domain.BidPage{
		Bids:       bids,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
		NextCursor: encodeCursor(page.NextCursor),
		PrevCursor: encodeCursor(page.PrevCursor),
	}, nil
}

func decodeBids(items []store.KeyedDoc) ([]*domain.Bid, error) {
	bids := make([]*domain.Bid, 0, len(items))
	for _, item := range items {
		var bid domain.Bid
		if err := fromDoc(item.Doc, &bid); err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}
	return bids, nil
}
