package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"checklens/internal/domain"
)

// APIResponse is the uniform envelope for every API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta holds pagination details for list responses.
type Meta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// OK writes a successful response with the given payload.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

// OKWithMeta writes a successful response with pagination metadata.
func OKWithMeta(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, APIResponse{Success: true, Data: data, Meta: meta})
}

// Fail writes an error response with the given code and message.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{Success: false, Error: &APIError{Code: code, Message: message}})
}

// HandleError maps a domain error onto an HTTP status and error code.
// Server-side failures are logged with the request id before responding.
func HandleError(c *gin.Context, err error) {
	status, code := mapDomainError(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %s %s failed: %v", requestID, c.Request.Method, c.Request.URL.Path, err)
	}
	Fail(c, status, code, err.Error())
}

func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingImage):
		return http.StatusBadRequest, "MISSING_IMAGE"
	case errors.Is(err, domain.ErrInvalidImageEncoding):
		return http.StatusBadRequest, "INVALID_IMAGE_ENCODING"
	case errors.Is(err, domain.ErrUnsupportedContentType):
		return http.StatusBadRequest, "UNSUPPORTED_CONTENT_TYPE"
	case errors.Is(err, domain.ErrGatewayFailure):
		return http.StatusBadGateway, "GATEWAY_FAILURE"
	case errors.Is(err, domain.ErrParseFailure):
		return http.StatusUnprocessableEntity, "PARSE_FAILURE"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusInternalServerError, "PERSISTENCE_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
