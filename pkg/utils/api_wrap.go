package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// serviceErrors maps sentinel errors to the status and message shown to
// clients. Order matters: the first match wins.
var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{ErrTripNotFound, http.StatusNotFound, "Trip not found"},
	{ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
	{ErrBookingAlreadyPaid, http.StatusConflict, "Booking is already paid"},
	{ErrPaymentDeclined, http.StatusPaymentRequired, "Payment declined"},
	{ErrInvalidCard, http.StatusBadRequest, "Invalid card details"},
	{ErrServiceUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

func HandleServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		// Validation errors carry the list of problems in their message.
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			RespondError(c, se.code, se.message)
			return
		}
	}

	if errors.Is(err, ErrDatabaseError) {
		zap.L().Error("database error", zap.String("trace_id", traceID(c)), zap.Error(err))
	} else {
		zap.L().Error("unhandled service error", zap.String("trace_id", traceID(c)), zap.Error(err))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}
