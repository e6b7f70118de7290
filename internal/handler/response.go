// Package handler exposes the HTTP API: gin handlers over the service layer
// with a uniform response envelope.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/domain"
	"mapsmith/internal/llm"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found or expired"
	case errors.Is(err, domain.ErrNoExtractedText):
		return http.StatusBadRequest, "NO_EXTRACTED_TEXT", "no extracted text in session; run extraction first"
	case errors.Is(err, domain.ErrNoDocument):
		return http.StatusBadRequest, "NO_DOCUMENT", "session holds no document yet"
	case errors.Is(err, domain.ErrNoPendingEdits):
		return http.StatusBadRequest, "NO_PENDING_EDITS", "no pending edits to apply"
	case errors.Is(err, domain.ErrMalformedModelOutput):
		return http.StatusBadGateway, "MALFORMED_MODEL_OUTPUT", "model reply could not be parsed as a map document"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported image type; allowed: png, jpg, jpeg, webp"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrImageFetchFailed):
		return http.StatusBadGateway, "IMAGE_FETCH_FAILED", "could not fetch image from the given URL"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusBadRequest, "INDEX_OUT_OF_RANGE", "place index out of range"
	case errors.Is(err, domain.ErrMissingAddress):
		return http.StatusBadRequest, "MISSING_ADDRESS", "place has no address to geocode"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", err.Error()
	case errors.Is(err, domain.ErrGeocoderNotConfigured):
		return http.StatusServiceUnavailable, "GEOCODER_NOT_CONFIGURED", "no geocoding provider configured"
	case errors.Is(err, domain.ErrArchiveNotConfigured):
		return http.StatusServiceUnavailable, "ARCHIVE_NOT_CONFIGURED", "export archiving is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// LLM rate limits surface as 429 with a Retry-After header.
func HandleError(c *gin.Context, err error) {
	var rateLimit *llm.RateLimitError
	if errors.As(err, &rateLimit) {
		c.Header("Retry-After", strconv.Itoa(int(rateLimit.RetryAfter.Seconds())))
		RespondError(c, http.StatusTooManyRequests, "RATE_LIMITED", "model provider rate limit hit; retry later")
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
