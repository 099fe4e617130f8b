package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// ScoreHandler handles HTTP requests for score updates
type ScoreHandler struct {
	auctionUseCase domain.AuctionUseCase
	scoreFeed      domain.ScoreFeed
	logger         *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(auctionUseCase domain.AuctionUseCase, scoreFeed domain.ScoreFeed, logger *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		auctionUseCase: auctionUseCase,
		scoreFeed:      scoreFeed,
		logger:         logger,
	}
}

// UpdateScoresRequest carries pushed score rows
type UpdateScoresRequest struct {
	Scores []domain.ScoreUpdate `json:"scores" binding:"required"`
}

// UpdateScores applies pushed score rows
// @Summary Push score updates
// @Description Apply score rows and re-sync every user's points
// @Tags scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateScoresRequest true "Score rows"
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /scores [post]
func (h *ScoreHandler) UpdateScores(c *gin.Context) {
	var req UpdateScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidScoreData, "Invalid request body"))
		return
	}

	if err := h.auctionUseCase.UpdateScores(c.Request.Context(), req.Scores); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.Scores)})
}

// SyncScores pulls the latest scores from the external feed
// @Summary Pull score updates
// @Description Fetch the latest scores from the feed and apply them
// @Tags scores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scores/sync [post]
func (h *ScoreHandler) SyncScores(c *gin.Context) {
	scores, err := h.scoreFeed.FetchScores(c.Request.Context())
	if err != nil {
		h.logger.Error("Score feed fetch failed", zap.Error(err))
		respondError(c, domain.NewAppError(domain.ErrCodeSystem, "Score feed unavailable", http.StatusBadGateway, err))
		return
	}

	if err := h.auctionUseCase.UpdateScores(c.Request.Context(), scores); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(scores)})
}
