package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// BidHandler handles HTTP requests for bidding operations
type BidHandler struct {
	auctionUseCase domain.AuctionUseCase
	viewUseCase    domain.ViewUseCase
	logger         *logger.Logger
}

// NewBidHandler creates a new bid handler
func NewBidHandler(auctionUseCase domain.AuctionUseCase, viewUseCase domain.ViewUseCase, logger *logger.Logger) *BidHandler {
	return &BidHandler{
		auctionUseCase: auctionUseCase,
		viewUseCase:    viewUseCase,
		logger:         logger,
	}
}

// InviteBidRequest represents the invite request body. An empty player name
// invites the next available player by bid order.
type InviteBidRequest struct {
	PlayerName string `json:"player_name" example:"V Kohli"`
}

// AcceptBidRequest represents the accept request body. Amount -1 is an
// explicit pass. No binding:"required" here: it fails on the int zero value,
// and amount 0 must reach the engine's INVALID_AMOUNT check.
type AcceptBidRequest struct {
	PlayerName string `json:"player_name" example:"V Kohli"`
	Amount     int    `json:"amount" example:"2000"`
}

// AcceptBidResponse wraps the round outcome
type AcceptBidResponse struct {
	Result          *domain.AcceptBidResult `json:"result"`
	AuctionComplete bool                    `json:"auction_complete,omitempty"`
}

// InviteBid opens a bidding round
// @Summary Invite bids for a player
// @Description Open a round for the named player, or the next available one
// @Tags bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InviteBidRequest true "Player to invite"
// @Success 200 {object} domain.Bid
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /bids/invite [post]
func (h *BidHandler) InviteBid(c *gin.Context) {
	var req InviteBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Invalid request body"))
		return
	}

	var bid *domain.Bid
	var err error
	if req.PlayerName == "" {
		bid, err = h.auctionUseCase.InviteNext(c.Request.Context())
	} else {
		bid, err = h.auctionUseCase.InviteBid(c.Request.Context(), req.PlayerName)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bid)
}

// AcceptBid records the authenticated user's response
// @Summary Submit a bid or pass
// @Description Record the authenticated user's sealed response for the round
// @Tags bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AcceptBidRequest true "Bid details"
// @Success 200 {object} AcceptBidResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /bids/accept [post]
func (h *BidHandler) AcceptBid(c *gin.Context) {
	username, ok := authenticatedUsername(c)
	if !ok {
		return
	}

	var req AcceptBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Invalid request body"))
		return
	}

	result, err := h.auctionUseCase.AcceptBid(c.Request.Context(), req.PlayerName, username, req.Amount)
	if err != nil {
		// Exhausting the roster ends the auction; the final round still
		// resolved, so the caller gets its outcome rather than a failure.
		if domain.HasCode(err, domain.ErrCodeNoMorePlayers) && result != nil {
			c.JSON(http.StatusOK, AcceptBidResponse{Result: result, AuctionComplete: true})
			return
		}
		h.logger.Warn("Accept bid failed",
			zap.String("player", req.PlayerName),
			zap.String("username", username),
			zap.Int("amount", req.Amount),
			zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AcceptBidResponse{Result: result})
}

// BidsHistory pages through resolved rounds
// @Summary Bid history
// @Description Resolved rounds by bid order descending, newest first
// @Tags bids
// @Produce json
// @Security BearerAuth
// @Param page_size query int false "Page size"
// @Param cursor query string false "Opaque page cursor"
// @Param direction query string false "next or prev"
// @Success 200 {object} BidPageResponse
// @Failure 400 {object} ErrorResponse
// @Router /bids/history [get]
func (h *BidHandler) BidsHistory(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}

	result, err := h.viewUseCase.BidsHistory(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BidPageResponse{
		Bids:       result.Bids,
		HasNext:    result.HasNext,
		HasPrev:    result.HasPrev,
		NextCursor: result.NextCursor,
		PrevCursor: result.PrevCursor,
	})
}

// BidPageResponse is one window of the bid history
type BidPageResponse struct {
	Bids       []*domain.Bid `json:"bids"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
	NextCursor string        `json:"next_cursor,omitempty"`
	PrevCursor string        `json:"prev_cursor,omitempty"`
}
