package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/http"
	"github.com/vinayakp/wcauction/internal/http/handlers"
	"github.com/vinayakp/wcauction/internal/http/middleware"
	"github.com/vinayakp/wcauction/internal/infrastructure/auth"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// InitHTTPServer initializes the HTTP server with all dependencies
func (a *application) InitHTTPServer(
	jwtService auth.JWTService,
	userHandler *handlers.UserHandler,
	gameHandler *handlers.GameHandler,
	bidHandler *handlers.BidHandler,
	playerHandler *handlers.PlayerHandler,
	scoreHandler *handlers.ScoreHandler,
	errorHandler *middleware.ErrorHandler,
	lg *logger.Logger,
) *http.Server {
	port := a.config.Server.Port
	if port == "" {
		port = "8080" // default port
	}

	return http.NewServer(jwtService, userHandler, gameHandler, bidHandler, playerHandler, scoreHandler, errorHandler, lg, port)
}

// RunServer binds the HTTP server to the fx lifecycle
func (a *application) RunServer(lc fx.Lifecycle, server *http.Server, lg *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.Start(); err != nil {
					lg.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return lg.Sync()
		},
	})
}
