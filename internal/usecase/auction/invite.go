package auction

import (
	"context"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// InviteBid opens a bidding round for the named player. The bid document is
// created outside the transaction: creation is idempotent per player, so a
// lost race costs nothing, and it keeps the transaction body re-executable.
func (uc *AuctionUseCase) InviteBid(ctx context.Context, playerName string) (*domain.Bid, error) {
	uc.logger.Info("Inviting bid", zap.String("player", playerName))

	player, err := uc.playerRepo.GetByName(ctx, playerName)
	if err != nil {
		return nil, domain.NewStoreError("load player", err)
	}
	if player == nil {
		return nil, domain.NewNotFoundError(domain.ErrCodePlayerNotFound, "Player")
	}

	if _, err := uc.bidRepo.CreateIfAbsent(ctx, &domain.Bid{
		PlayerName: player.Name,
		BidOrder:   player.BidOrder,
	}); err != nil {
		return nil, domain.NewStoreError("create bid", err)
	}

	var opened *domain.Bid
	err = uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		gameRepo := uc.gameRepo.WithTx(tx)
		playerRepo := uc.playerRepo.WithTx(tx)
		userRepo := uc.userRepo.WithTx(tx)
		bidRepo := uc.bidRepo.WithTx(tx)

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
		if player.Status != domain.PlayerAvailable {
			return domain.NewStateError(domain.ErrCodePlayerNotAvailable, "Player is not available for bidding")
		}
		if game.BidInProgress {
			return domain.NewStateError(domain.ErrCodeBidInProgress, "Another bidding round is in progress")
		}

		bid, err := bidRepo.Get(ctx, player.Key())
		if err != nil {
			return domain.NewStoreError("load bid", err)
		}
		if bid == nil {
			return domain.NewNotFoundError(domain.ErrCodeBidNotFound, "Bid")
		}

		users, err := userRepo.GetAll(ctx)
		if err != nil {
			return domain.NewStoreError("load users", err)
		}

		game.BidInProgress = true
		game.PlayerInBidding = player.Name
		game.UserToBid = len(users)
		game.UsersToBid = make([]string, 0, len(users))
		for _, u := range users {
			game.UsersToBid = append(game.UsersToBid, u.Username)
		}

		// A broke user never blocks round completion.
		for _, u := range users {
			if u.Balance == 0 && !bid.HasBid(u.Username) {
				bid.BidMap = append(bid.BidMap, domain.BidEntry{
					Username: u.Username,
					Amount:   domain.AmountNoBalance,
				})
				game.RemoveUserToBid(u.Username)
			}
		}

		player.Status = domain.PlayerBidding

		if err := playerRepo.Update(ctx, player); err != nil {
			return domain.NewStoreError("update player", err)
		}
		if err := bidRepo.Update(ctx, bid); err != nil {
			return domain.NewStoreError("update bid", err)
		}
		if err := gameRepo.Save(ctx, game); err != nil {
			return domain.NewStoreError("save game", err)
		}
		opened = bid
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return nil, err
		}
		uc.logger.Error("Invite transaction failed", zap.String("player", playerName), zap.Error(err))
		return nil, domain.WrapStoreError("invite bid", err)
	}

	uc.logger.Info("Bidding round opened",
		zap.String("player", opened.PlayerName),
		zap.Int("bid_order", opened.BidOrder),
		zap.Int("auto_passes", len(opened.BidMap)))
	return opened, nil
}

// InviteNext opens a round for the next available player by bid order.
func (uc *AuctionUseCase) InviteNext(ctx context.Context) (*domain.Bid, error) {
	players, err := uc.playerRepo.OrderBy(ctx,
		[]store.Order{{Field: "bid_order"}},
		store.Filter{"status": string(domain.PlayerAvailable)})
	if err != nil {
		return nil, domain.WrapStoreError("load available players", err)
	}
	if len(players) == 0 {
		return nil, domain.NewStateError(domain.ErrCodeNoMorePlayers, "No players left to invite")
	}
	return uc.InviteBid(ctx, players[0].Name)
}

// StartBidding opens the first round of the auction.
func (uc *AuctionUseCase) StartBidding(ctx context.Context) (*domain.Bid, error) {
	game, err := uc.GameStatus(ctx)
	if err != nil {
		return nil, err
	}
	if game.BidInProgress {
		return nil, domain.NewStateError(domain.ErrCodeBidInProgress, "Bidding has already started")
	}
	if game.PlayerToBid <= 0 {
		return nil, domain.NewStateError(domain.ErrCodeBiddingComplete, "All players have been through bidding")
	}
	return uc.InviteNext(ctx)
}

// PauseBidding suspends the open round. Recorded responses are kept and the
// player stays in bidding state until the round is resumed.
func (uc *AuctionUseCase) PauseBidding(ctx context.Context) error {
	err := uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		gameRepo := uc.gameRepo.WithTx(tx)
		game, err := loadGame(ctx, gameRepo)
		if err != nil {
			return err
		}
		if !game.BidInProgress {
			return domain.NewStateError(domain.ErrCodeBiddingNotStarted, "No bidding round is open")
		}
		game.BidInProgress = false
		if err := gameRepo.Save(ctx, game); err != nil {
			return domain.NewStoreError("save game", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return err
		}
		return domain.WrapStoreError("pause bidding", err)
	}
	uc.logger.Info("Bidding paused")
	return nil
}

// ResumeBidding reopens a paused round.
func (uc *AuctionUseCase) ResumeBidding(ctx context.Context) error {
	err := uc.store.RunTransaction(ctx, func(tx store.Tx) error {
		gameRepo := uc.gameRepo.WithTx(tx)
		game, err := loadGame(ctx, gameRepo)
		if err != nil {
			return err
		}
		if game.BidInProgress {
			return domain.NewStateError(domain.ErrCodeBidInProgress, "Bidding round is already open")
		}
		if game.PlayerInBidding == "" {
			return domain.NewStateError(domain.ErrCodeBiddingNotStarted, "No paused round to resume")
		}
		game.BidInProgress = true
		if err := gameRepo.Save(ctx, game); err != nil {
			return domain.NewStoreError("save game", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.IsAppError(err); ok {
			return err
		}
		return domain.WrapStoreError("resume bidding", err)
	}
	uc.logger.Info("Bidding resumed")
	return nil
}
