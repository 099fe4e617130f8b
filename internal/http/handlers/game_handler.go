package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/usecase/valuation"
)

// GameHandler handles HTTP requests for game lifecycle operations
type GameHandler struct {
	auctionUseCase domain.AuctionUseCase
	playerRepo     domain.PlayerRepository
	initialBudget  int
	logger         *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(auctionUseCase domain.AuctionUseCase, playerRepo domain.PlayerRepository, initialBudget int, logger *logger.Logger) *GameHandler {
	if initialBudget <= 0 {
		initialBudget = domain.DefaultInitialBudget
	}
	return &GameHandler{
		auctionUseCase: auctionUseCase,
		playerRepo:     playerRepo,
		initialBudget:  initialBudget,
		logger:         logger,
	}
}

// GameStatusResponse is the game snapshot plus the suggested per-player bid
type GameStatusResponse struct {
	Game         *domain.Game `json:"game"`
	AvgPlayerBid float64      `json:"avg_player_bid"`
}

// GameStatus returns the current game snapshot
// @Summary Game status
// @Description Current game snapshot with a suggested per-player budget
// @Tags game
// @Produce json
// @Security BearerAuth
// @Success 200 {object} GameStatusResponse
// @Failure 409 {object} ErrorResponse
// @Router /game [get]
func (h *GameHandler) GameStatus(c *gin.Context) {
	game, err := h.auctionUseCase.GameStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var current *domain.Player
	if game.PlayerInBidding != "" {
		current, err = h.playerRepo.GetByName(c.Request.Context(), game.PlayerInBidding)
		if err != nil {
			h.logger.Warn("Failed to load player in bidding for status",
				zap.String("player", game.PlayerInBidding),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, GameStatusResponse{
		Game:         game,
		AvgPlayerBid: valuation.AvgPlayerBid(game, current, h.initialBudget),
	})
}

// InitGame recomputes the game snapshot from the roster
// @Summary Initialize game
// @Description Recompute the game snapshot from the current users and players
// @Tags game
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Game
// @Failure 409 {object} ErrorResponse
// @Router /game/init [post]
func (h *GameHandler) InitGame(c *gin.Context) {
	game, err := h.auctionUseCase.InitGame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// BiddingAction drives the round lifecycle: start, pause or resume
// @Summary Bidding lifecycle
// @Description Start the auction, pause the open round, or resume a paused round
// @Tags game
// @Produce json
// @Security BearerAuth
// @Param action path string true "start, pause or resume"
// @Success 200 {object} domain.Bid
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /game/bidding/{action} [post]
func (h *GameHandler) BiddingAction(c *gin.Context) {
	switch c.Param("action") {
	case "start":
		bid, err := h.auctionUseCase.StartBidding(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bid)
	case "pause":
		if err := h.auctionUseCase.PauseBidding(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "paused"})
	case "resume":
		if err := h.auctionUseCase.ResumeBidding(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "resumed"})
	default:
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Action must be start, pause or resume"))
	}
}
