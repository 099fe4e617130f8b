package auction

import (
	"context"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// SyncUserPoints recomputes a user's points from their owned players and
// rewrites every owner snapshot in the same transaction, keeping the
// denormalization consistent.
func (uc *AuctionUseCase) SyncUserPoints(ctx context.Context, username string) error {
	err := uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		userRepo := uc.userRepo.WithTx(tx)
		playerRepo := uc.playerRepo.WithTx(tx)

		user, err := userRepo.Get(ctx, username)
		if err != nil {
			return domain.NewStoreError("load user", err)
		}
		if user == nil {
			return domain.NewNotFoundError(domain.ErrCodeUserNotFound, "User")
		}

		owned, err := playerRepo.QueryEqual(ctx, "owner_username", username)
		if err != nil {
			return domain.NewStoreError("load owned players", err)
		}

		points := 0.0
		for _, p := range owned {
			points += p.Score
		}

		user.Points = points
		if err := userRepo.Update(ctx, user); err != nil {
			return domain.NewStoreError("update user", err)
		}
		for _, p := range owned {
			p.Owner = &domain.OwnerSnapshot{
				Name:    user.Name,
				Points:  points,
				Color:   user.Color,
				BgColor: user.BgColor,
			}
			if err := playerRepo.Update(ctx, p); err != nil {
				return domain.NewStoreError("update owner snapshot", err)
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return err
		}
		return domain.WrapStoreError("sync user points", err)
	}

	uc.logger.Debug("User points synced", zap.String("username", username))
	return nil
}

// UpdateScores applies an external score delivery, then re-syncs points for
// every user so their totals and owner snapshots reflect the new scores.
func (uc *AuctionUseCase) UpdateScores(ctx context.Context, scores []domain.ScoreUpdate) error {
	if len(scores) == 0 {
		return domain.NewValidationError(domain.ErrCodeInvalidScoreData, "Score delivery is empty")
	}
	for _, s := range scores {
		if s.Player == "" || s.Score < 0 {
			return domain.NewValidationError(domain.ErrCodeInvalidScoreData, "Score delivery contains a malformed row")
		}
	}

	updated := make([]*domain.Player, 0, len(scores))
	for _, s := range scores {
		player, err := uc.playerRepo.GetByName(ctx, s.Player)
		if err != nil {
			return domain.NewStoreError("load player", err)
		}
		if player == nil {
			uc.logger.Warn("Score delivered for unknown player", zap.String("player", s.Player))
			continue
		}
		player.Score = s.Score
		updated = append(updated, player)
	}
	if len(updated) > 0 {
		if err := uc.playerRepo.CreateBatch(ctx, updated); err != nil {
			return domain.NewStoreError("write scores", err)
		}
	}

	users, err := uc.userRepo.GetAll(ctx)
	if err != nil {
		return domain.NewStoreError("load users", err)
	}
	for _, u := range users {
		if err := uc.SyncUserPoints(ctx, u.Username); err != nil {
			uc.logger.Warn("Point sync after score update failed",
				zap.String("username", u.Username),
				zap.Error(err))
		}
	}

	uc.logger.Info("Scores updated",
		zap.Int("delivered", len(scores)),
		zap.Int("applied", len(updated)))
	return nil
}
