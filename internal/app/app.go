package app

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/fx"

	"github.com/vinayakp/wcauction/internal/config"
)

// Application provides application level setup
type Application interface {
	Setup()
	GetContext() context.Context
}

// application represents context and configure file
type application struct {
	ctx    context.Context
	config *config.Config
}

// NewApplication creates a new application
func NewApplication(ctx context.Context) Application {
	return &application{ctx: ctx}
}

// GetContext returns application context
func (a *application) GetContext() context.Context {
	return a.ctx
}

// Setup creates a new fx application with all modules
func (a *application) Setup() {
	fmt.Println("[x] Starting World Cup Auction Service...")

	path := flag.String("e", "./config", "env file directory")
	flag.Parse()

	err := a.setupViper(*path)
	if err != nil {
		log.Panic(err.Error())
	}

	app := fx.New(
		fx.Provide(
			a.InitLogger,
			a.InitDatabase,
			a.InitStore,
			a.InitUserRepository,
			a.InitPlayerRepository,
			a.InitGameRepository,
			a.InitBidRepository,
			a.InitJWTService,
			a.InitScoreFeed,
			a.InitLockManager,
			a.InitScorePoller,
			a.InitRand,
			a.InitUserUseCase,
			a.InitAuctionUseCase,
			a.InitViewUseCase,
			a.InitUserHandler,
			a.InitGameHandler,
			a.InitBidHandler,
			a.InitPlayerHandler,
			a.InitScoreHandler,
			a.InitErrorHandler,
			a.InitHTTPServer,
		),
		fx.Invoke(a.RunServer),
		fx.Invoke(a.RunScorePoller),
	)

	app.Run()
}
