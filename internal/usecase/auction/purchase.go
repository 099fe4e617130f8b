package auction

import (
	"context"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// UnsoldWinner is recorded as last_winner when a round ends with no buyer.
const UnsoldWinner = "Unsold"

// PurchasePlayer settles a resolved round in one transaction: ownership,
// balances and the game bookkeeping move together. An empty username marks
// the player unsold and forces the amount to zero.
func (uc *AuctionUseCase) PurchasePlayer(ctx context.Context, playerName, username string, amount int) error {
	uc.logger.Info("Purchasing player",
		zap.String("player", playerName),
		zap.String("username", username),
		zap.Int("amount", amount))

	err := uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		gameRepo := uc.gameRepo.WithTx(tx)
		playerRepo := uc.playerRepo.WithTx(tx)
		userRepo := uc.userRepo.WithTx(tx)

		game, err := loadGame(ctx, gameRepo)
		if err != nil {
			return err
		}
		player, err := playerRepo.GetByName(ctx, playerName)
		if err != nil {
			return domain.NewStoreError("load player", err)
		}
		if player == nil {
			return domain.NewNotFoundError(domain.ErrCodePlayerNotFound, "Player")
		}

		price := amount
		lastWinner := UnsoldWinner
		if username != "" {
			user, err := userRepo.Get(ctx, username)
			if err != nil {
				return domain.NewStoreError("load user", err)
			}
			if user == nil {
				return domain.NewNotFoundError(domain.ErrCodeUserNotFound, "User")
			}

			player.Status = domain.PlayerPurchased
			player.OwnerUsername = username
			player.Owner = &domain.OwnerSnapshot{
				Name:    user.Name,
				Points:  user.Points + player.Score,
				Color:   user.Color,
				BgColor: user.BgColor,
			}
			player.Price = price

			user.Balance -= price
			user.PlayerCount++
			if err := userRepo.Update(ctx, user); err != nil {
				return domain.NewStoreError("update user", err)
			}
			lastWinner = user.Name
		} else {
			player.Status = domain.PlayerUnsold
			player.Price = 0
			price = 0
		}

		game.TotalBalance -= price
		game.PlayerInBidding = ""
		game.PlayerToBid--
		game.RemainingValue -= player.Value
		game.UserToBid = 0
		game.UsersToBid = nil
		game.LastPlayer = player.Name
		game.LastWinner = lastWinner
		game.LastPrice = price
		game.BidInProgress = false

		if err := playerRepo.Update(ctx, player); err != nil {
			return domain.NewStoreError("update player", err)
		}
		if err := gameRepo.Save(ctx, game); err != nil {
			return domain.NewStoreError("save game", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return err
		}
		uc.logger.Error("Purchase transaction failed",
			zap.String("player", playerName),
			zap.String("username", username),
			zap.Error(err))
		return domain.WrapStoreError("purchase player", err)
	}

	// The purchase is the financially authoritative event; points are a
	// derived projection and their sync must not unwind it.
	if username != "" {
		if err := uc.SyncUserPoints(ctx, username); err != nil {
			uc.logger.Warn("Point sync after purchase failed",
				zap.String("username", username),
				zap.Error(err))
		}
	}
	return nil
}
