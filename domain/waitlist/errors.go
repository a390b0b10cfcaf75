package waitlist

import (
	"errors"

	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
)

// Sentinel errors for the waitlist domain.
var (
	ErrNotEduEmail       = errors.New("must use a .edu email")
	ErrMissingName       = errors.New("first and last name are required")
	ErrAlreadyOnWaitlist = errors.New("this email is already on the waitlist")
	ErrPersistence       = errors.New("waitlist store rejected the signup")
	ErrLookup            = errors.New("school standing is unavailable")
)

func NewValidationError(cause error) *apperrors.AppError {
	return apperrors.NewInvalidRequestError(cause.Error(), cause)
}

// NewDuplicateError keeps the store error (if any) reachable next to ErrAlreadyOnWaitlist.
func NewDuplicateError(storeErr error) *apperrors.AppError {
	return apperrors.NewConflictError(ErrAlreadyOnWaitlist.Error(), errors.Join(ErrAlreadyOnWaitlist, storeErr))
}

// NewPersistenceError surfaces the store's own message.
func NewPersistenceError(storeErr error) *apperrors.AppError {
	return apperrors.NewDatabaseError(apperrors.GetHumanReadableMessage(storeErr), errors.Join(ErrPersistence, storeErr))
}

func NewLookupError(storeErr error) *apperrors.AppError {
	return apperrors.NewLookupError(ErrLookup.Error(), errors.Join(ErrLookup, storeErr))
}
