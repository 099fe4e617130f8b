// Package view is the read-only projection layer: ranked standings, squad
// listings, roster pagination, tag search and bid history. It never mutates
// auction state.
package view

import (
	"context"
	"sort"
	"strings"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// MaxSearchTags bounds a tag search request.
const MaxSearchTags = 10

// ViewUseCase implements domain.ViewUseCase
type ViewUseCase struct {
	userRepo   domain.UserRepository
	playerRepo domain.PlayerRepository
	bidRepo    domain.BidRepository
	gameRepo   domain.GameRepository
	logger     *logger.Logger
}

// NewViewUseCase creates a new view use case
func NewViewUseCase(
	userRepo domain.UserRepository,
	playerRepo domain.PlayerRepository,
	bidRepo domain.BidRepository,
	gameRepo domain.GameRepository,
	lg *logger.Logger,
) domain.ViewUseCase {
	return &ViewUseCase{
		userRepo:   userRepo,
		playerRepo: playerRepo,
		bidRepo:    bidRepo,
		gameRepo:   gameRepo,
		logger:     lg,
	}
}

// RankedUsers lists all users by points descending, ties broken by balance
// descending.
func (uc *ViewUseCase) RankedUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := uc.userRepo.OrderBy(ctx, []store.Order{
		{Field: "points", Desc: true},
		{Field: "balance", Desc: true},
	}, nil)
	if err != nil {
		return nil, domain.WrapStoreError("load ranked users", err)
	}
	return users, nil
}

// PurchasedPlayers lists a user's squad by score then price descending with
// an aggregate summary.
func (uc *ViewUseCase) PurchasedPlayers(ctx context.Context, username string) ([]*domain.Player, *domain.PurchaseSummary, error) {
	user, err := uc.userRepo.Get(ctx, username)
	if err != nil {
		return nil, nil, domain.WrapStoreError("load user", err)
	}
	if user == nil {
		return nil, nil, domain.NewNotFoundError(domain.ErrCodeUserNotFound, "User")
	}

	players, err := uc.playerRepo.OrderBy(ctx, []store.Order{
		{Field: "score", Desc: true},
		{Field: "price", Desc: true},
	}, store.Filter{"owner_username": username})
	if err != nil {
		return nil, nil, domain.WrapStoreError("load purchased players", err)
	}

	summary := &domain.PurchaseSummary{}
	for _, p := range players {
		summary.TotalScore += p.Score
		summary.TotalPrice += p.Price
	}
	return players, summary, nil
}

// AvailablePlayers pages through available players by bid order. A zero
// page size returns the full ordered list.
func (uc *ViewUseCase) AvailablePlayers(ctx context.Context, page domain.PageRequest) (*domain.PlayerPage, error) {
	q := store.PageQuery{
		Orders:   []store.Order{{Field: "bid_order"}},
		Filter:   store.Filter{"status": string(domain.PlayerAvailable)},
		PageSize: page.PageSize,
	}
	if page.Cursor != "" {
		cursor, err := store.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Malformed page cursor")
		}
		q.Cursor = cursor
	}
	if page.Prev {
		q.Direction = store.Prev
	}

	result, err := uc.playerRepo.Paginate(ctx, q)
	if err != nil {
		return nil, domain.WrapStoreError("paginate available players", err)
	}
	return result, nil
}

// SearchPlayers filters the roster by 1-10 tags. A "-" prefix excludes the
// tag; results are the inclusion intersection minus exclusions, by bid order.
func (uc *ViewUseCase) SearchPlayers(ctx context.Context, tags []string) ([]*domain.Player, error) {
	if len(tags) == 0 || len(tags) > MaxSearchTags {
		return nil, domain.NewValidationError(domain.ErrCodeInvalidTagList, "Search accepts between 1 and 10 tags")
	}

	var include, exclude []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "-" {
			return nil, domain.NewValidationError(domain.ErrCodeInvalidTagList, "Search tags must be non-empty")
		}
		if strings.HasPrefix(tag, "-") {
			exclude = append(exclude, tag[1:])
		} else {
			include = append(include, tag)
		}
	}

	players, err := uc.playerRepo.OrderBy(ctx, []store.Order{{Field: "bid_order"}}, nil)
	if err != nil {
		return nil, domain.WrapStoreError("load players", err)
	}

	matched := make([]*domain.Player, 0)
	for _, p := range players {
		if matchesTags(p, include, exclude) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func matchesTags(p *domain.Player, include, exclude []string) bool {
	for _, tag := range include {
		if !p.HasTag(tag) {
			return false
		}
	}
	for _, tag := range exclude {
		if p.HasTag(tag) {
			return false
		}
	}
	return true
}

// BidsHistory pages through resolved rounds by bid order descending. The
// in-progress round is excluded and every bid map is sorted by username for
// stable display.
func (uc *ViewUseCase) BidsHistory(ctx context.Context, page domain.PageRequest) (*domain.BidPage, error) {
	game, err := uc.gameRepo.Get(ctx)
	if err != nil {
		return nil, domain.WrapStoreError("load game", err)
	}

	q := store.PageQuery{
		Orders:   []store.Order{{Field: "bid_order", Desc: true}},
		PageSize: page.PageSize,
	}
	if page.Cursor != "" {
		cursor, err := store.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Malformed page cursor")
		}
		q.Cursor = cursor
	}
	if page.Prev {
		q.Direction = store.Prev
	}

	result, err := uc.bidRepo.Paginate(ctx, q)
	if err != nil {
		return nil, domain.WrapStoreError("paginate bids", err)
	}

	bids := result.Bids
	if game != nil && game.PlayerInBidding != "" {
		filtered := make([]*domain.Bid, 0, len(bids))
		for _, b := range bids {
			if b.PlayerName == game.PlayerInBidding {
				continue
			}
			filtered = append(filtered, b)
		}
		bids = filtered
	}
	for _, b := range bids {
		sort.Slice(b.BidMap, func(i, j int) bool {
			return b.BidMap[i].Username < b.BidMap[j].Username
		})
	}
	result.Bids = bids
	return result, nil
}
