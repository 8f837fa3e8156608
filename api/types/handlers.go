package types

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// ParseUintParam extracts and parses a URL parameter as uint
// Returns the parsed value and sends error response if parsing fails
func ParseUintParam(c *gin.Context, paramName string) (uint, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.ParseUint(paramStr, 10, 32)
	if err != nil || value == 0 {
		SendBadRequest(c, "Invalid "+paramName)
		return 0, false
	}
	return uint(value), true
}

// ParseLimitQuery reads the "limit" query parameter, falling back to def
func ParseLimitQuery(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	return min(limit, max)
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Message: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Message: message})
}

// SendError maps an application error to its HTTP status and error code
func SendError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Status:  StatusError,
		Message: err.Error(),
		Error:   string(apperrors.GetCode(err)),
	}
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}
	c.JSON(apperrors.GetHTTPCode(err), resp)
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
