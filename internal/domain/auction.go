package domain

import "context"

// ScoreUpdate is one row of an external score delivery.
type ScoreUpdate struct {
	Player string  `json:"player"`
	Score  float64 `json:"score"`
}

// ScoreFeed is the external source of score updates.
type ScoreFeed interface {
	FetchScores(ctx context.Context) ([]ScoreUpdate, error)
}

// AcceptBidResult reports what happened to a round after a response was
// recorded. When the response completed the round, the resolution fields
// are populated and NextBid points at the freshly invited round, if any.
type AcceptBidResult struct {
	RoundComplete bool   `json:"round_complete"`
	PlayerName    string `json:"player_name"`
	Winner        string `json:"winner,omitempty"`
	WinningPrice  int    `json:"winning_price,omitempty"`
	Unsold        bool   `json:"unsold,omitempty"`
	NextBid       *Bid   `json:"next_bid,omitempty"`
}

// AuctionUseCase is the auction transaction engine: the single writer for
// Game, Player, Bid and User documents during a round.
type AuctionUseCase interface {
	// InitGame recomputes the singleton game document from the current
	// user and player sets. Idempotent.
	InitGame(ctx context.Context) (*Game, error)

	// InviteBid opens a round for the named player.
	InviteBid(ctx context.Context, playerName string) (*Bid, error)

	// InviteNext opens a round for the next available player by bid order.
	InviteNext(ctx context.Context) (*Bid, error)

	// AcceptBid records one user's response; amount is a positive bid or
	// AmountPass. The call that completes the round also resolves the
	// winner and invites the next player.
	AcceptBid(ctx context.Context, playerName, username string, amount int) (*AcceptBidResult, error)

	// PurchasePlayer settles a resolved round: assigns ownership and
	// adjusts balances, or marks the player unsold when username is empty.
	PurchasePlayer(ctx context.Context, playerName, username string, amount int) error

	// SyncUserPoints recomputes a user's points from owned players and
	// refreshes every owner snapshot.
	SyncUserPoints(ctx context.Context, username string) error

	// UpdateScores applies an external score delivery and re-syncs points
	// for all users.
	UpdateScores(ctx context.Context, scores []ScoreUpdate) error

	// StartBidding opens the first round of the auction.
	StartBidding(ctx context.Context) (*Bid, error)

	// PauseBidding suspends the open round without losing its responses.
	PauseBidding(ctx context.Context) error

	// ResumeBidding reopens a paused round.
	ResumeBidding(ctx context.Context) error

	// GameStatus returns the current game snapshot.
	GameStatus(ctx context.Context) (*Game, error)
}
