package domain

import (
	"context"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// GameKey is the document key of the singleton game document.
const GameKey = "1"

// Game is the singleton auction state document. Every round serializes
// through it.
type Game struct {
	UserCount       int      `json:"user_count"`
	PlayerCount     int      `json:"player_count"`
	TotalBalance    int      `json:"total_balance"`
	PlayerToBid     int      `json:"player_to_bid"`
	RemainingValue  float64  `json:"remaining_value"`
	BidInProgress   bool     `json:"bid_in_progress"`
	PlayerInBidding string   `json:"player_in_bidding,omitempty"`
	UserToBid       int      `json:"user_to_bid"`
	UsersToBid      []string `json:"users_to_bid,omitempty"`
	LastPlayer      string   `json:"last_player,omitempty"`
	LastWinner      string   `json:"last_winner,omitempty"`
	LastPrice       int      `json:"last_price"`
}

// UserPending reports whether username has not yet responded in the
// current round.
func (g *Game) UserPending(username string) bool {
	for _, u := range g.UsersToBid {
		if u == username {
			return true
		}
	}
	return false
}

// RemoveUserToBid removes username from the pending set and decrements the
// pending counter. It is a no-op when the user already responded.
func (g *Game) RemoveUserToBid(username string) {
	for i, u := range g.UsersToBid {
		if u == username {
			g.UsersToBid = append(g.UsersToBid[:i], g.UsersToBid[i+1:]...)
			g.UserToBid--
			return
		}
	}
}

// GameRepository defines the interface for the singleton game document
type GameRepository interface {
	Get(ctx context.Context) (*Game, error)
	Save(ctx context.Context, game *Game) error
	WithTx(tx store.Tx) GameRepository
}
