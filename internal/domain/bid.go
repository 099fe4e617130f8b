package domain

import (
	"context"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// Sentinel amounts recorded in a bid map instead of a real bid.
const (
	// AmountPass is an explicit pass by the user.
	AmountPass = -1
	// AmountNoBalance is the auto-pass recorded for a user whose balance
	// is zero when the round opens.
	AmountNoBalance = -2
)

// BidEntry is one user's response in a round.
type BidEntry struct {
	Username string `json:"username"`
	Amount   int    `json:"amount"`
}

// Bid collects the sealed responses for one player. It is created on first
// invite and never deleted; the bid map is append-only within the round.
type Bid struct {
	PlayerName   string     `json:"player_name"`
	BidOrder     int        `json:"bid_order"`
	BidMap       []BidEntry `json:"bid_map,omitempty"`
	Winner       string     `json:"winner,omitempty"`
	WinningPrice int        `json:"winning_price"`
}

// Key returns the document key for the bid, shared with its player.
func (b *Bid) Key() string {
	return PlayerKey(b.PlayerName)
}

// HasBid reports whether username already responded in this round.
func (b *Bid) HasBid(username string) bool {
	for _, e := range b.BidMap {
		if e.Username == username {
			return true
		}
	}
	return false
}

// Complete reports whether every participant has responded.
func (b *Bid) Complete(userCount int) bool {
	return userCount > 0 && len(b.BidMap) >= userCount
}

// BidPage is one window of the paginated bid history.
type BidPage struct {
	Bids       []*Bid
	HasNext    bool
	HasPrev    bool
	NextCursor string
	PrevCursor string
}

// BidRepository defines the interface for bid data
type BidRepository interface {
	Get(ctx context.Context, key string) (*Bid, error)
	CreateIfAbsent(ctx context.Context, bid *Bid) (*Bid, error)
	Update(ctx context.Context, bid *Bid) error
	GetAll(ctx context.Context) ([]*Bid, error)
	Paginate(ctx context.Context, q store.PageQuery) (*BidPage, error)
	WithTx(tx store.Tx) BidRepository
}
