package repository

import (
	"context"
	"errors"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// GameRepository implements domain.GameRepository
type GameRepository struct {
	s store.Store
	a store.Accessor
}

// NewGameRepository creates a new game repository
func NewGameRepository(s store.Store) domain.GameRepository {
	return &GameRepository{s: s, a: s}
}

// WithTx binds the repository to an open transaction view
func (r *GameRepository) WithTx(tx store.Tx) domain.GameRepository {
	return &GameRepository{s: r.s, a: tx}
}

// Get retrieves the singleton game document, returning nil when absent
func (r *GameRepository) Get(ctx context.Context) (*domain.Game, error) {
	doc, err := r.a.Get(ctx, GamesCollection, domain.GameKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var game domain.Game
	if err := fromDoc(doc, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Save overwrites the singleton game document
func (r *GameRepository) Save(ctx context.Context, game *domain.Game) error {
	doc, err := toDoc(game)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, GamesCollection, domain.GameKey, doc)
}
