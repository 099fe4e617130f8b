package app

import (
	"math/rand"
	"time"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/auth"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
	"github.com/vinayakp/wcauction/internal/usecase/auction"
	"github.com/vinayakp/wcauction/internal/usecase/user"
	"github.com/vinayakp/wcauction/internal/usecase/view"
)

// InitRand seeds the randomness source used for bid tie-breaks
func (a *application) InitRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (a *application) InitUserUseCase(ur domain.UserRepository, jwt auth.JWTService, lg *logger.Logger) domain.UserUseCase {
	return user.NewUserUseCase(ur, jwt, lg)
}

func (a *application) InitAuctionUseCase(
	s store.Store,
	gr domain.GameRepository,
	pr domain.PlayerRepository,
	ur domain.UserRepository,
	br domain.BidRepository,
	lg *logger.Logger,
	rng *rand.Rand,
) domain.AuctionUseCase {
	return auction.NewAuctionUseCase(s, gr, pr, ur, br, lg, rng)
}

func (a *application) InitViewUseCase(
	ur domain.UserRepository,
	pr domain.PlayerRepository,
	br domain.BidRepository,
	gr domain.GameRepository,
	lg *logger.Logger,
) domain.ViewUseCase {
	return view.NewViewUseCase(ur, pr, br, gr, lg)
}
