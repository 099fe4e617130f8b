package domain

import (
	"context"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// DefaultInitialBudget is the budget every user starts the auction with,
// unless overridden by configuration.
const DefaultInitialBudget = 10000

// User represents an auction participant. The username is the document key.
type User struct {
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"password_hash,omitempty"`
	Balance      int     `json:"balance"`
	Points       float64 `json:"points"`
	Color        string  `json:"color"`
	BgColor      string  `json:"bg_color"`
	PlayerCount  int     `json:"player_count"`
}

// Key returns the document key for the user.
func (u *User) Key() string {
	return u.Username
}

// UserRepository defines the interface for user data
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, username string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	QueryEqual(ctx context.Context, field string, value any) ([]*User, error)
	OrderBy(ctx context.Context, orders []store.Order, filter store.Filter) ([]*User, error)
	CreateBatch(ctx context.Context, users []*User) error
	WithTx(tx store.Tx) UserRepository
}

// UserUseCase defines the interface for user business logic
type UserUseCase interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	GetUserInfo(ctx context.Context, username string) (*User, error)
}
