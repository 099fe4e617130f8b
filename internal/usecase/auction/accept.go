package auction

import (
	"context"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// AcceptBid records one user's response for the player currently in
// bidding. The append and the round bookkeeping commit in one transaction;
// the call that completes the round also resolves the winner, settles the
// purchase and invites the next player.
func (uc *AuctionUseCase) AcceptBid(ctx context.Context, playerName, username string, amount int) (*domain.AcceptBidResult, error) {
	uc.logger.Info("Accepting bid",
		zap.String("player", playerName),
		zap.String("username", username),
		zap.Int("amount", amount))

	if amount != domain.AmountPass && amount < 1 {
		return nil, domain.NewValidationError(domain.ErrCodeInvalidAmount, "Bid amount must be positive or an explicit pass")
	}
	if playerName == "" || username == "" {
		return nil, domain.NewValidationError(domain.ErrCodeRequiredField, "Bid requires a player name and a username")
	}

	var completed *domain.Bid
	var userCount int
	err := uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		completed = nil

		gameRepo := uc.gameRepo.WithTx(tx)
		playerRepo := uc.playerRepo.WithTx(tx)
		userRepo := uc.userRepo.WithTx(tx)
		bidRepo := uc.bidRepo.WithTx(tx)

		game, err := loadGame(ctx, gameRepo)
		if err != nil {
			return err
		}
		if !game.BidInProgress {
			return domain.NewStateError(domain.ErrCodeBiddingNotStarted, "No bidding round is open")
		}
		if !game.UserPending(username) {
			return domain.NewStateError(domain.ErrCodeAlreadyBid, "User has already responded in this round")
		}

		user, err := userRepo.Get(ctx, username)
		if err != nil {
			return domain.NewStoreError("load user", err)
		}
		if user == nil {
			return domain.NewNotFoundError(domain.ErrCodeUserNotFound, "User")
		}
		if amount > 0 && amount > user.Balance {
			return domain.NewAppError(domain.ErrCodeInsufficientBalance, "Bid exceeds available balance", 422, nil)
		}

		player, err := playerRepo.GetByName(ctx, playerName)
		if err != nil {
			return domain.NewStoreError("load player", err)
		}
		if player == nil {
			return domain.NewNotFoundError(domain.ErrCodePlayerNotFound, "Player")
		}
		if player.Status != domain.PlayerBidding {
			return domain.NewStateError(domain.ErrCodePlayerNotInvited, "Player is not in a bidding round")
		}

		bid, err := bidRepo.Get(ctx, player.Key())
		if err != nil {
			return domain.NewStoreError("load bid", err)
		}
		if bid == nil {
			return domain.NewNotFoundError(domain.ErrCodeBidNotFound, "Bid")
		}
		if bid.HasBid(username) {
			return domain.NewStateError(domain.ErrCodeAlreadyBid, "User has already responded in this round")
		}

		bid.BidMap = append(bid.BidMap, domain.BidEntry{Username: username, Amount: amount})
		game.RemoveUserToBid(username)

		if err := bidRepo.Update(ctx, bid); err != nil {
			return domain.NewStoreError("update bid", err)
		}
		if err := gameRepo.Save(ctx, game); err != nil {
			return domain.NewStoreError("save game", err)
		}

		// Completion must be observed in the same transaction that appended
		// the final entry, so only one caller performs resolution.
		if bid.Complete(game.UserCount) {
			completed = bid
			userCount = game.UserCount
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return nil, err
		}
		uc.logger.Error("Accept transaction failed",
			zap.String("player", playerName),
			zap.String("username", username),
			zap.Error(err))
		return nil, domain.WrapStoreError("accept bid", err)
	}

	if completed == nil {
		return &domain.AcceptBidResult{PlayerName: playerName}, nil
	}

	uc.logger.Info("Round complete, resolving",
		zap.String("player", completed.PlayerName),
		zap.Int("responses", len(completed.BidMap)),
		zap.Int("user_count", userCount))
	return uc.resolveRound(ctx, completed)
}

// resolveRound settles a completed round: winner selection, purchase,
// winner bookkeeping on the bid, and invitation of the next player.
func (uc *AuctionUseCase) resolveRound(ctx context.Context, bid *domain.Bid) (*domain.AcceptBidResult, error) {
	result := &domain.AcceptBidResult{
		RoundComplete: true,
		PlayerName:    bid.PlayerName,
	}

	winner, price := uc.pickWinner(bid)
	if winner == "" {
		result.Unsold = true
		if err := uc.PurchasePlayer(ctx, bid.PlayerName, "", 0); err != nil {
			return nil, err
		}
	} else {
		result.Winner = winner
		result.WinningPrice = price
		if err := uc.PurchasePlayer(ctx, bid.PlayerName, winner, price); err != nil {
			return nil, err
		}
	}

	bid.Winner = winner
	bid.WinningPrice = price
	if err := uc.bidRepo.Update(ctx, bid); err != nil {
		return nil, domain.NewStoreError("record winner", err)
	}

	next, err := uc.InviteNext(ctx)
	if err != nil {
		if domain.HasCode(err, domain.ErrCodeNoMorePlayers) {
			uc.logger.Info("Roster exhausted, auction complete",
				zap.String("last_player", bid.PlayerName))
			return result, err
		}
		return nil, err
	}
	result.NextBid = next
	return result, nil
}
