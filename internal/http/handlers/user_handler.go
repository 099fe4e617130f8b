package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinayakp/wcauction/internal/domain"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userUseCase domain.UserUseCase
	viewUseCase domain.ViewUseCase
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUseCase domain.UserUseCase, viewUseCase domain.ViewUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		viewUseCase: viewUseCase,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  *domain.User `json:"user"`
}

// Login handles user authentication
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.ErrCodeInvalidFormat, "Invalid request body"))
		return
	}

	token, err := h.userUseCase.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userUseCase.GetUserInfo(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// GetUserInfo returns the authenticated user
// @Summary Get user information
// @Description Get current user information from JWT token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	username, ok := authenticatedUsername(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.GetUserInfo(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RankedUsers returns the standings
// @Summary Ranked standings
// @Description All users ordered by points, ties broken by balance
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /users/ranked [get]
func (h *UserHandler) RankedUsers(c *gin.Context) {
	users, err := h.viewUseCase.RankedUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// PurchasedPlayersResponse represents a user's squad with its summary
type PurchasedPlayersResponse struct {
	Players []*domain.Player        `json:"players"`
	Summary *domain.PurchaseSummary `json:"summary"`
}

// PurchasedPlayers returns a user's squad
// @Summary Purchased players
// @Description Players owned by a user with aggregate score and spend
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} PurchasedPlayersResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{username}/players [get]
func (h *UserHandler) PurchasedPlayers(c *gin.Context) {
	username := c.Param("username")

	players, summary, err := h.viewUseCase.PurchasedPlayers(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PurchasedPlayersResponse{Players: players, Summary: summary})
}
