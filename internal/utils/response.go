package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes surfaced to the client alongside the HTTP status.
const (
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodePaymentRequired  = "payment_required"
	CodeNotFound         = "not_found"
	CodeQuotaExceeded    = "quota_exceeded"
	CodeRateLimited      = "rate_limited"
	CodeGenerationFailed = "generation_failed"
	CodeInternal         = "internal_error"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorCode, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:    statusCode,
		Message:   "An error occurred",
		Error:     errorMessage,
		ErrorCode: errorCode,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, CodeValidationFailed, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, errorMessage)
}

// PaymentRequired sends a 402 Payment Required error response.
func PaymentRequired(c *gin.Context, errorMessage string) {
	Error(c, http.StatusPaymentRequired, CodePaymentRequired, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, CodeUnauthorized, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, CodeNotFound, errorMessage)
}

// QuotaExceeded sends a 429 response with retry guidance for upstream quota errors.
func QuotaExceeded(c *gin.Context, errorMessage string) {
	c.Header("Retry-After", "60")
	Error(c, http.StatusTooManyRequests, CodeQuotaExceeded, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, CodeInternal, errorMessage)
}
