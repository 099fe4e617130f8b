package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vinayakp/wcauction/internal/http/handlers"
	"github.com/vinayakp/wcauction/internal/http/middleware"
	"github.com/vinayakp/wcauction/internal/infrastructure/auth"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	router        *gin.Engine
	jwtService    auth.JWTService
	userHandler   *handlers.UserHandler
	gameHandler   *handlers.GameHandler
	bidHandler    *handlers.BidHandler
	playerHandler *handlers.PlayerHandler
	scoreHandler  *handlers.ScoreHandler
	errorHandler  *middleware.ErrorHandler
	port          string
}

// NewServer creates a new HTTP server
func NewServer(
	jwtService auth.JWTService,
	userHandler *handlers.UserHandler,
	gameHandler *handlers.GameHandler,
	bidHandler *handlers.BidHandler,
	playerHandler *handlers.PlayerHandler,
	scoreHandler *handlers.ScoreHandler,
	errorHandler *middleware.ErrorHandler,
	log *logger.Logger,
	port string,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(errorHandler.RequestIDMiddleware())
	router.Use(errorHandler.TimeoutMiddleware(30 * time.Second))
	router.Use(errorHandler.ErrorHandlerMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(gin.Recovery())

	server := &Server{
		router:        router,
		jwtService:    jwtService,
		userHandler:   userHandler,
		gameHandler:   gameHandler,
		bidHandler:    bidHandler,
		playerHandler: playerHandler,
		scoreHandler:  scoreHandler,
		errorHandler:  errorHandler,
		port:          port,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", s.userHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTMiddleware(s.jwtService))
		{
			userRoutes := protected.Group("/users")
			{
				userRoutes.GET("/me", s.userHandler.GetUserInfo)
				userRoutes.GET("/ranked", s.userHandler.RankedUsers)
				userRoutes.GET("/:username/players", s.userHandler.PurchasedPlayers)
			}

			gameRoutes := protected.Group("/game")
			{
				gameRoutes.GET("", s.gameHandler.GameStatus)
				gameRoutes.POST("/init", s.gameHandler.InitGame)
				gameRoutes.POST("/bidding/:action", s.gameHandler.BiddingAction)
			}

			bidRoutes := protected.Group("/bids")
			{
				bidRoutes.POST("/invite", s.bidHandler.InviteBid)
				bidRoutes.POST("/accept", s.bidHandler.AcceptBid)
				bidRoutes.GET("/history", s.bidHandler.BidsHistory)
			}

			playerRoutes := protected.Group("/players")
			{
				playerRoutes.GET("/available", s.playerHandler.AvailablePlayers)
				playerRoutes.GET("/search", s.playerHandler.SearchPlayers)
			}

			scoreRoutes := protected.Group("/scores")
			{
				scoreRoutes.POST("", s.scoreHandler.UpdateScores)
				scoreRoutes.POST("/sync", s.scoreHandler.SyncScores)
			}
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.port)
	return s.router.Run(addr)
}
