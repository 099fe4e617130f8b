package app

import (
	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/http/handlers"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

func (a *application) InitUserHandler(uc domain.UserUseCase, vc domain.ViewUseCase) *handlers.UserHandler {
	return handlers.NewUserHandler(uc, vc)
}

func (a *application) InitGameHandler(ac domain.AuctionUseCase, pr domain.PlayerRepository, lg *logger.Logger) *handlers.GameHandler {
	return handlers.NewGameHandler(ac, pr, a.config.Auction.InitialBudget, lg)
}

func (a *application) InitBidHandler(ac domain.AuctionUseCase, vc domain.ViewUseCase, lg *logger.Logger) *handlers.BidHandler {
	return handlers.NewBidHandler(ac, vc, lg)
}

func (a *application) InitPlayerHandler(vc domain.ViewUseCase) *handlers.PlayerHandler {
	return handlers.NewPlayerHandler(vc)
}

func (a *application) InitScoreHandler(ac domain.AuctionUseCase, feed domain.ScoreFeed, lg *logger.Logger) *handlers.ScoreHandler {
	return handlers.NewScoreHandler(ac, feed, lg)
}
