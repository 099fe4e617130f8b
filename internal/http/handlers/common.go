package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vinayakp/wcauction/internal/domain"
)

// ErrorResponse documents the error envelope for swagger
type ErrorResponse struct {
	Error   *domain.AppError `json:"error"`
	Success bool             `json:"success" example:"false"`
}

// respondError writes err with the status carried by its AppError, falling
// back to 500 for anything untyped.
func respondError(c *gin.Context, err error) {
	if appErr, ok := domain.IsAppError(err); ok {
		if id, exists := c.Get("request_id"); exists {
			appErr.RequestID, _ = id.(string)
		}
		appErr.Path = c.Request.URL.Path
		appErr.Method = c.Request.Method
		c.JSON(appErr.HTTPStatus, domain.NewErrorResponse(appErr))
		return
	}
	c.JSON(http.StatusInternalServerError, domain.NewErrorResponse(domain.NewInternalError("", err)))
}

// authenticatedUsername extracts the username set by the JWT middleware.
func authenticatedUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get("username")
	if !exists {
		respondError(c, domain.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	username, ok := value.(string)
	if !ok || username == "" {
		respondError(c, domain.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return username, true
}

// pageRequest reads the shared pagination query parameters.
func pageRequest(c *gin.Context) (domain.PageRequest, bool) {
	page := domain.PageRequest{
		Cursor: c.Query("cursor"),
		Prev:   c.Query("direction") == "prev",
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			respondError(c, domain.NewValidationError(domain.ErrCodeInvalidFormat, "page_size must be a positive integer"))
			return page, false
		}
		page.PageSize = size
	}
	return page, true
}
