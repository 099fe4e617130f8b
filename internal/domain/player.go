package domain

import (
	"context"
	"strings"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// PlayerStatus is the lifecycle state of a player in the auction.
type PlayerStatus string

const (
	PlayerAvailable PlayerStatus = "available"
	PlayerBidding   PlayerStatus = "bidding"
	PlayerPurchased PlayerStatus = "purchased"
	PlayerUnsold    PlayerStatus = "unsold"
)

// OwnerSnapshot is a denormalized copy of the owning user, written on
// purchase and refreshed on every points sync. PurchasePlayer and
// SyncUserPoints are the only writers.
type OwnerSnapshot struct {
	Name    string  `json:"name"`
	Points  float64 `json:"points"`
	Color   string  `json:"color,omitempty"`
	BgColor string  `json:"bg_color,omitempty"`
}

// Player represents an auction item. A player moves through
// available -> bidding -> purchased/unsold exactly once.
type Player struct {
	Name          string         `json:"name"`
	Country       string         `json:"country,omitempty"`
	Type          string         `json:"type,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Status        PlayerStatus   `json:"status"`
	OwnerUsername string         `json:"owner_username,omitempty"`
	Owner         *OwnerSnapshot `json:"owner,omitempty"`
	Price         int            `json:"price"`
	BidOrder      int            `json:"bid_order"`
	Score         float64        `json:"score"`
	Value         float64        `json:"value"`
	Matches       int            `json:"matches"`
	Runs          int            `json:"runs"`
	Catches       int            `json:"catches"`
	Balls         int            `json:"balls"`
	Wickets       int            `json:"wickets"`
}

// PlayerKey derives the document key from a player name.
func PlayerKey(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// Key returns the document key for the player.
func (p *Player) Key() string {
	return PlayerKey(p.Name)
}

// HasTag reports whether the player carries the given tag.
func (p *Player) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PlayerPage is one window of a paginated player listing.
type PlayerPage struct {
	Players    []*Player
	HasNext    bool
	HasPrev    bool
	NextCursor string
	PrevCursor string
}

// PlayerRepository defines the interface for player data
type PlayerRepository interface {
	Create(ctx context.Context, player *Player) error
	Get(ctx context.Context, key string) (*Player, error)
	GetByName(ctx context.Context, name string) (*Player, error)
	GetAll(ctx context.Context) ([]*Player, error)
	Update(ctx context.Context, player *Player) error
	QueryEqual(ctx context.Context, field string, value any) ([]*Player, error)
	OrderBy(ctx context.Context, orders []store.Order, filter store.Filter) ([]*Player, error)
	Paginate(ctx context.Context, q store.PageQuery) (*PlayerPage, error)
	CreateBatch(ctx context.Context, players []*Player) error
	WithTx(tx store.Tx) PlayerRepository
}
