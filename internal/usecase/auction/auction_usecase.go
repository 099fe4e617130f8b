// Package auction is the transaction engine of the service: the single
// writer path for Game, Player, Bid and User documents during a round.
package auction

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// AuctionUseCase implements domain.AuctionUseCase
type AuctionUseCase struct {
	store      store.Store
	gameRepo   domain.GameRepository
	playerRepo domain.PlayerRepository
	userRepo   domain.UserRepository
	bidRepo    domain.BidRepository
	logger     *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewAuctionUseCase creates a new auction use case. The rng drives the
// tie-break among equal highest bids; tests inject a seeded source.
func NewAuctionUseCase(
	st store.Store,
	gameRepo domain.GameRepository,
	playerRepo domain.PlayerRepository,
	userRepo domain.UserRepository,
	bidRepo domain.BidRepository,
	lg *logger.Logger,
	rng *rand.Rand,
) domain.AuctionUseCase {
	return &AuctionUseCase{
		store:      st,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
		bidRepo:    bidRepo,
		logger:     lg,
		rng:        rng,
	}
}

// InitGame recomputes the singleton game document from the current user and
// player sets. Safe to call repeatedly; every call overwrites the snapshot.
func (uc *AuctionUseCase) InitGame(ctx context.Context) (*domain.Game, error) {
	uc.logger.Info("Initializing game")

	users, err := uc.userRepo.GetAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to load users for game init", zap.Error(err))
		return nil, domain.NewStoreError("load users", err)
	}
	players, err := uc.playerRepo.GetAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to load players for game init", zap.Error(err))
		return nil, domain.NewStoreError("load players", err)
	}

	if len(users) == 0 || len(players) == 0 {
		uc.logger.Warn("Game init attempted with incomplete roster",
			zap.Int("users", len(users)),
			zap.Int("players", len(players)))
		return nil, domain.NewStateError(domain.ErrCodeGameNotReady, "Game requires at least one user and one player")
	}

	game := &domain.Game{
		UserCount:   len(users),
		PlayerCount: len(players),
		PlayerToBid: len(players),
	}
	for _, u := range users {
		game.TotalBalance += u.Balance
	}
	for _, p := range players {
		game.RemainingValue += p.Value
	}

	if err := uc.gameRepo.Save(ctx, game); err != nil {
		uc.logger.Error("Failed to save game", zap.Error(err))
		return nil, domain.NewStoreError("save game", err)
	}

	uc.logger.Info("Game initialized",
		zap.Int("user_count", game.UserCount),
		zap.Int("player_count", game.PlayerCount),
		zap.Int("total_balance", game.TotalBalance),
		zap.Float64("remaining_value", game.RemainingValue))
	return game, nil
}

// GameStatus returns the current game snapshot.
func (uc *AuctionUseCase) GameStatus(ctx context.Context) (*domain.Game, error) {
	game, err := uc.gameRepo.Get(ctx)
	if err != nil {
		return nil, domain.NewStoreError("load game", err)
	}
	if game == nil {
		return nil, domain.NewStateError(domain.ErrCodeGameNotReady, "Game has not been initialized")
	}
	return game, nil
}

// loadGame fetches the singleton game inside a transaction view.
func loadGame(ctx context.Context, repo domain.GameRepository) (*domain.Game, error) {
	game, err := repo.Get(ctx)
	if err != nil {
		return nil, domain.NewStoreError("load game", err)
	}
	if game == nil {
		return nil, domain.NewStateError(domain.ErrCodeGameNotReady, "Game has not been initialized")
	}
	return game, nil
}

// pickWinner selects the winning entry: highest positive amount, ties
// resolved uniformly at random. Returns an empty username when every entry
// is a pass or auto-pass.
func (uc *AuctionUseCase) pickWinner(bid *domain.Bid) (string, int) {
	best := 0
	var tied []string
	for _, e := range bid.BidMap {
		switch {
		case e.Amount < 1:
			continue
		case e.Amount > best:
			best = e.Amount
			tied = tied[:0]
			tied = append(tied, e.Username)
		case e.Amount == best:
			tied = append(tied, e.Username)
		}
	}
	if best < 1 || len(tied) == 0 {
		return "", 0
	}
	if len(tied) == 1 {
		return tied[0], best
	}
	uc.rngMu.Lock()
	winner := tied[uc.rng.Intn(len(tied))]
	uc.rngMu.Unlock()
	return winner, best
}
