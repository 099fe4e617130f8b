package repository

import (
	"context"
	"errors"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// UserRepository implements domain.UserRepository
type UserRepository struct {
	s store.Store
	a store.Accessor
}

// NewUserRepository creates a new user repository
func NewUserRepository(s store.Store) domain.UserRepository {
	return &UserRepository{s: s, a: s}
}

// WithTx binds the repository to an open transaction view
func (r *UserRepository) WithTx(tx store.Tx) domain.UserRepository {
	return &UserRepository{s: r.s, a: tx}
}

// Create writes a new user keyed by username
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := toDoc(user)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, UsersCollection, user.Key(), doc)
}

// Get retrieves a user by username, returning nil when absent
func (r *UserRepository) Get(ctx context.Context, username string) (*domain.User, error) {
	doc, err := r.a.Get(ctx, UsersCollection, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var user domain.User
	if err := fromDoc(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll retrieves every user
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	items, err := r.a.Query(ctx, UsersCollection, nil)
	if err != nil {
		return nil, err
	}
	return decodeUsers(items)
}

// Update overwrites an existing user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	doc, err := toDoc(user)
	if err != nil {
		return err
	}
	return r.a.Set(ctx, UsersCollection, user.Key(), doc)
}

// QueryEqual retrieves users matching a single equality condition
func (r *UserRepository) QueryEqual(ctx context.Context, field string, value any) ([]*domain.User, error) {
	items, err := r.a.Query(ctx, UsersCollection, store.Filter{field: value})
	if err != nil {
		return nil, err
	}
	return decodeUsers(items)
}

// OrderBy retrieves users sorted by the given criteria
func (r *UserRepository) OrderBy(ctx context.Context, orders []store.Order, filter store.Filter) ([]*domain.User, error) {
	items, err := r.a.OrderBy(ctx, UsersCollection, orders, filter)
	if err != nil {
		return nil, err
	}
	return decodeUsers(items)
}

// CreateBatch writes users in a single bulk scope
func (r *UserRepository) CreateBatch(ctx context.Context, users []*domain.User) error {
	batch := r.s.NewBatch()
	for _, user := range users {
		doc, err := toDoc(user)
		if err != nil {
			return err
		}
		batch.Set(UsersCollection, user.Key(), doc)
	}
	return batch.Commit(ctx)
}

func decodeUsers(items []store.KeyedDoc) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(items))
	for _, item := range items {
		var user domain.User
		if err := fromDoc(item.Doc, &user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, nil
}
