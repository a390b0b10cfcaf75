package errors

import (
	"errors"
	"strings"
)

// Error types carried by AppError. Each maps to one HTTP status in http.go.
const (
	ErrorTypeInvalidRequest = "INVALID_REQUEST"
	ErrorTypeNotFound       = "NOT_FOUND"
	ErrorTypeConflict       = "CONFLICT"
	ErrorTypeDatabaseError  = "DATABASE_ERROR"
	// ErrorTypeLookupError marks a failed read of derived data (rank, count, leaderboard).
	ErrorTypeLookupError         = "LOOKUP_ERROR"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
)

// AppError pairs a client-safe Message with the internal cause in Err.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

func NewLookupError(message string, err error) *AppError {
	return NewAppError(ErrorTypeLookupError, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, message, err)
}

// GetErrorType returns the type of the outermost AppError in err's chain,
// ErrorTypeUnknown when there is none, and "" for nil.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

func IsErrorType(err error, errType string) bool {
	return err != nil && GetErrorType(err) == errType
}

// duplicateKeyMarkers cover PostgreSQL (SQLSTATE 23505) and SQLite unique violations.
var duplicateKeyMarkers = []string{"sqlstate 23505", "duplicate key", "unique constraint"}

// IsDuplicateKeyError recognizes unique-index violations from driver error text.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
