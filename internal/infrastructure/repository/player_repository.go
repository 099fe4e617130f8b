package repository

import (
	"context"
	"errors"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// PlayerRepository implements domain.PlayerRepository
type PlayerRepository struct {
	s store.Store
	a store.Accessor
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(s store.Store) domain.PlayerRepository {
	return &PlayerRepository{s: s, a: s}
}

// WithTx binds the repository to an open transaction view
func (r *PlayerRepository) WithTx(tx store.Tx) domain.PlayerRepository {
	return &PlayerRepository{s: r.s, a: tx}
}

// Create writes a new player
func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	doc, err := toDoc(player)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, PlayersCollection, player.Key(), doc)
}

// Get retrieves a player by document key, returning nil when absent
func (r *PlayerRepository) Get(ctx context.Context, key string) (*domain.Player, error) {
	doc, err := r.a.Get(ctx, PlayersCollection, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var player domain.Player
	if err := fromDoc(doc, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// GetByName retrieves a player by display name
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	return r.Get(ctx, domain.PlayerKey(name))
}

// GetAll retrieves every player
func (r *PlayerRepository) GetAll(ctx context.Context) ([]*domain.Player, error) {
	items, err := r.a.Query(ctx, PlayersCollection, nil)
	if err != nil {
		return nil, err
	}
	return decodePlayers(items)
}

// Update overwrites an existing player
func (r *PlayerRepository) Update(ctx context.Context, player *domain.Player) error {
	doc, err := toDoc(player)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, PlayersCollection, player.Key(), doc)
}

// QueryEqual retrieves players matching a single equality condition
func (r *PlayerRepository) QueryEqual(ctx context.Context, field string, value any) ([]*domain.Player, error) {
	items, err := r.a.Query(ctx, PlayersCollection, store.Filter{field: value})
	if err != nil {
		return nil, err
	}
	return decodePlayers(items)
}

// OrderBy retrieves players sorted by the given criteria
func (r *PlayerRepository) OrderBy(ctx context.Context, orders []store.Order, filter store.Filter) ([]*domain.Player, error) {
	items, err := r.a.OrderBy(ctx, PlayersCollection, orders, filter)
	if err != nil {
		return nil, err
	}
	return decodePlayers(items)
}

// Paginate returns one window of players for the given page query
func (r *PlayerRepository) Paginate(ctx context.Context, q store.PageQuery) (*domain.PlayerPage, error) {
	page, err := r.s.Paginate(ctx, PlayersCollection, q)
	if err != nil {
		return nil, err
	}
	players, err := decodePlayers(page.Items)
	if err != nil {
		return nil, err
	}
	return &domain.PlayerPage{
		Players:    players,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
		NextCursor: encodeCursor(page.NextCursor),
		PrevCursor: encodeCursor(page.PrevCursor),
	}, nil
}

// CreateBatch writes players in a single bulk scope
func (r *PlayerRepository) CreateBatch(ctx context.Context, players []*domain.Player) error {
	batch := r.s.NewBatch()
	for _, player := range players {
		doc, err := toDoc(player)
		if err != nil {
			return err
		}
		batch.Set(PlayersCollection, player.Key(), doc)
	}
	return batch.Commit(ctx)
}

func decodePlayers(items []store.KeyedDoc) ([]*domain.Player, error) {
	players := make([]*domain.Player, 0, len(items))
	for _, item := range items {
		var player domain.Player
		if err := fromDoc(item.Doc, &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}
