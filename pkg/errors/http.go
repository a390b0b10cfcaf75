package errors

import (
	"errors"
	"net/http"
)

const genericErrorMessage = "An unexpected error occurred"

var statusByType = map[string]int{
	ErrorTypeInvalidRequest: http.StatusBadRequest,
	ErrorTypeNotFound:       http.StatusNotFound,
	ErrorTypeConflict:       http.StatusConflict,
	ErrorTypeLookupError:    http.StatusServiceUnavailable,
}

// HTTPStatusCode maps err to a response status. Untyped errors are 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHumanReadableMessage returns the AppError message. Other errors may carry driver
// details and are replaced by a generic message.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return genericErrorMessage
}
