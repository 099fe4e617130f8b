package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vinayakp/wcauction/internal/domain"
)

// PlayerHandler handles HTTP requests for roster queries
type PlayerHandler struct {
	viewUseCase domain.ViewUseCase
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(viewUseCase domain.ViewUseCase) *PlayerHandler {
	return &PlayerHandler{viewUseCase: viewUseCase}
}

// PlayerPageResponse is one window of the available roster
type PlayerPageResponse struct {
	Players    []*domain.Player `json:"players"`
	HasNext    bool             `json:"has_next"`
	HasPrev    bool             `json:"has_prev"`
	NextCursor string           `json:"next_cursor,omitempty"`
	PrevCursor string           `json:"prev_cursor,omitempty"`
}

// AvailablePlayers pages through the available roster
// @Summary Available players
// @Description Players still available for bidding, by bid order
// @Tags players
// @Produce json
// @Security BearerAuth
// @Param page_size query int false "Page size; omit for the full list"
// @Param cursor query string false "Opaque page cursor"
// @Param direction query string false "next or prev"
// @Success 200 {object} PlayerPageResponse
// @Failure 400 {object} ErrorResponse
// @Router /players/available [get]
func (h *PlayerHandler) AvailablePlayers(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}

	result, err := h.viewUseCase.AvailablePlayers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlayerPageResponse{
		Players:    result.Players,
		HasNext:    result.HasNext,
		HasPrev:    result.HasPrev,
		NextCursor: result.NextCursor,
		PrevCursor: result.PrevCursor,
	})
}

// SearchPlayers filters the roster by tags
// @Summary Search players by tags
// @Description Comma-separated tags; a "-" prefix excludes the tag
// @Tags players
// @Produce json
// @Security BearerAuth
// @Param tags query string true "Comma-separated tag list, max 10"
// @Success 200 {array} domain.Player
// @Failure 400 {object} ErrorResponse
// @Router /players/search [get]
func (h *PlayerHandler) SearchPlayers(c *gin.Context) {
	raw := c.Query("tags")
	if raw == "" {
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidTagList, "Search accepts between 1 and 10 tags"))
		return
	}

	players, err := h.viewUseCase.SearchPlayers(c.Request.Context(), strings.Split(raw, ","))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}
