package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/errors"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error  string        `json:"error"`
	Code   errors.Code   `json:"code,omitempty"`
	Reason errors.Reason `json:"reason,omitempty"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: errors.CodeValidation})
}

// respondDomainError maps a store or service error to its status code.
// Storage failures and unknown errors are logged and not exposed.
func respondDomainError(c *gin.Context, log *zap.Logger, err error, op string) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) && domainErr.Code != errors.CodeStorage {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:  domainErr.Message,
			Code:   domainErr.Code,
			Reason: domainErr.Reason,
		})
		return
	}

	log.Error("request failed", zap.String("op", op), zap.Error(err))
	if errors.CodeOf(err) == errors.CodeStorage {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable", Code: errors.CodeStorage})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIntQuery reads an optional integer query parameter. Missing means
// def. Returns false after responding 400 on a malformed value.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// sessionUser returns the username of the active session.
func sessionUser(c *gin.Context) string {
	return auth.CurrentSession(c).Username
}
