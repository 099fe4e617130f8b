package domain

import "context"

// PurchaseSummary aggregates a user's purchased players.
type PurchaseSummary struct {
	TotalScore float64 `json:"total_score"`
	TotalPrice int     `json:"total_price"`
}

// PageRequest carries the pagination parameters of a view query. An empty
// cursor starts at the first page; Prev pages backwards from the cursor.
type PageRequest struct {
	PageSize int
	Cursor   string
	Prev     bool
}

// ViewUseCase is the read-only projection layer consumed by presentation.
// It never mutates auction state.
type ViewUseCase interface {
	// RankedUsers lists all users by points descending, ties broken by
	// balance descending.
	RankedUsers(ctx context.Context) ([]*User, error)

	// PurchasedPlayers lists a user's players by score then price
	// descending, with an aggregate summary.
	PurchasedPlayers(ctx context.Context, username string) ([]*Player, *PurchaseSummary, error)

	// AvailablePlayers pages through available players by bid order. A
	// zero page size returns the full ordered list.
	AvailablePlayers(ctx context.Context, page PageRequest) (*PlayerPage, error)

	// SearchPlayers filters players by 1-10 tags; a "-" prefix excludes
	// the tag. Results are ordered by bid order.
	SearchPlayers(ctx context.Context, tags []string) ([]*Player, error)

	// BidsHistory pages through resolved bids by bid order descending,
	// excluding the in-progress round. Bid maps are sorted by username.
	BidsHistory(ctx context.Context, page PageRequest) (*BidPage, error)
}
