package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/publish"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeNotFound         ErrorCode = "not_found"
	errCodeValidationFailed ErrorCode = "validation_failed"
	errCodeUnauthorized     ErrorCode = "unauthorized"
	errCodePublished        ErrorCode = "collection_published"
	errCodeWallet           ErrorCode = "wallet_error"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
	errCodeRemoteError   ErrorCode = "remote_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	Problems []string  `json:"problems,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}
	if len(details) > 0 {
		response.Error.Details = details[0]
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message)
}

// respondInternalError sends a 500 response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondOperationError maps a failed operation onto the error taxonomy:
// provider errors, remote errors and validation errors each get their own
// code, and remote-provided messages are surfaced when available.
func respondOperationError(c *gin.Context, err error) {
	var validationErr *publish.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{
				Code:     errCodeValidationFailed,
				Message:  "Validation failed",
				Problems: validationErr.Problems,
			},
		})
		return
	}

	var remoteErr *adapter.RemoteError
	if errors.As(err, &remoteErr) {
		respondWithError(c, http.StatusBadGateway, errCodeRemoteError, remoteErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNoPrimaryAccount), errors.Is(err, domain.ErrSessionExpired):
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCollectionNotFound):
		respondNotFound(c, err.Error())
	case errors.Is(err, domain.ErrCollectionPublished):
		respondWithError(c, http.StatusConflict, errCodePublished, err.Error())
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrWrongProvider),
		errors.Is(err, domain.ErrUserRejected):
		respondWithError(c, http.StatusBadRequest, errCodeWallet, err.Error())
	case errors.Is(err, publish.ErrNotConfirmed):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "operation failed")
	}
}
