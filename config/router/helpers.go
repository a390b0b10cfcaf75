package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/akeren/innr-waitlist/internal/log"
	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
)

// GetLogger returns the correlated logger stored by the router middleware.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Data: data, Message: message}
}

func CreatedResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusCreated, Data: data, Message: message}
}

func BadRequestResult(message string, details any) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message, details)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message, nil)
}

// ErrorResult carries optional details such as per-field validation errors in data.
func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}

func requestTimeoutResult() *ServiceResult {
	return ErrorResult(http.StatusRequestTimeout, "Request timeout", nil)
}

func payloadTooLargeResult() *ServiceResult {
	return ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil)
}

// BodyTooLargeResult returns a 413 when a bind error came from the body size limit, nil otherwise.
// Bodies without a Content-Length are only cut off while the handler reads them.
func BodyTooLargeResult(err error) *ServiceResult {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return payloadTooLargeResult()
	}
	return nil
}

// AppErrorResult renders a service error with the status and message its type maps to.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}

// ParseLimitQuery reads ?limit=. Absent means fallback; anything but a positive integer is a 400.
func ParseLimitQuery(ctx *RequestContext, fallback int) (int, *ServiceResult) {
	raw := strings.TrimSpace(ctx.Query("limit"))
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		GetLogger(ctx).Warn("Invalid limit parameter", "value", raw)
		return 0, BadRequestResult("limit must be a positive integer", nil)
	}

	return limit, nil
}

func RequiredPathParam(ctx *RequestContext, name string) (string, *ServiceResult) {
	value := strings.TrimSpace(ctx.Param(name))
	if value == "" {
		return "", BadRequestResult(name+" is required", nil)
	}
	return value, nil
}
