package app

import (
	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/repository"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

func (a *application) InitUserRepository(s store.Store) domain.UserRepository {
	return repository.NewUserRepository(s)
}

func (a *application) InitPlayerRepository(s store.Store) domain.PlayerRepository {
	return repository.NewPlayerRepository(s)
}

func (a *application) InitGameRepository(s store.Store) domain.GameRepository {
	return repository.NewGameRepository(s)
}

func (a *application) InitBidRepository(s store.Store) domain.BidRepository {
	return repository.NewBidRepository(s)
}
