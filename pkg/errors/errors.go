package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrCollectiblesExist   = errors.New("collectibles already generated for booking")
	ErrCollectibleNotFound = errors.New("collectible not found")
	ErrInvalidBillingType  = errors.New("invalid billing type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidStatus       = errors.New("invalid collectible status")
	ErrInvalidCursor       = errors.New("invalid pagination cursor")
	ErrScheduleIncomplete  = errors.New("schedule creation incomplete")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeBookingNotFound     = "BOOKING_NOT_FOUND"
	ErrCodeCollectiblesExist   = "COLLECTIBLES_ALREADY_GENERATED"
	ErrCodeCollectibleNotFound = "COLLECTIBLE_NOT_FOUND"
	ErrCodeInvalidBillingType  = "INVALID_BILLING_TYPE"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidCursor       = "INVALID_CURSOR"
	ErrCodeScheduleIncomplete  = "SCHEDULE_INCOMPLETE"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapBookingNotFound(bookingID string) *BusinessError {
	return NewBusinessError(
		ErrCodeBookingNotFound,
		fmt.Sprintf("Booking with ID %s not found", bookingID),
		ErrBookingNotFound,
	)
}

func WrapCollectiblesExist(bookingID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCollectiblesExist,
		fmt.Sprintf("Collectibles were already generated for booking %s", bookingID),
		ErrCollectiblesExist,
	)
}

func WrapCollectibleNotFound(collectibleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCollectibleNotFound,
		fmt.Sprintf("Collectible with ID %s not found", collectibleID),
		ErrCollectibleNotFound,
	)
}

func WrapInvalidBillingType(billingType string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidBillingType,
		fmt.Sprintf("Billing type %q is not supported", billingType),
		ErrInvalidBillingType,
	)
}

func WrapInvalidAmount(field, value string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Field %s has invalid amount %s", field, value),
		ErrInvalidAmount,
	)
}

func WrapInvalidStatus(status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatus,
		fmt.Sprintf("Status %q is not a valid collectible status", status),
		ErrInvalidStatus,
	)
}

func WrapInvalidCursor(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCursor,
		"pagination cursor could not be decoded",
		errors.Join(ErrInvalidCursor, err),
	)
}

// WrapScheduleIncomplete reports a creation saga that failed mid-flight and
// was compensated. The underlying cause is preserved for logging.
func WrapScheduleIncomplete(bookingID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleIncomplete,
		fmt.Sprintf("Schedule creation for booking %s was rolled back", bookingID),
		errors.Join(ErrScheduleIncomplete, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
