package handler

import "github.com/gofiber/fiber/v3"

// ErrInvalidBody indicates that the request body could not be parsed into
// the expected structure.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// The four curve error kinds map 1:1 onto 400 responses whose message
// names the kind.

var ErrInvalidConfigBadRequest = fiber.NewError(fiber.StatusBadRequest, "InvalidConfig: malformed curve parameters or arithmetic overflow")

var ErrOutOfRangeBadRequest = fiber.NewError(fiber.StatusBadRequest, "OutOfRange: step is outside the curve range")

var ErrZeroInputBadRequest = fiber.NewError(fiber.StatusBadRequest, "ZeroInput: amount must be greater than zero")

var ErrExceedsPoolBadRequest = fiber.NewError(fiber.StatusBadRequest, "ExceedsPool: amount exceeds the remaining pool reserve")

// ErrBatchTooLargeBadRequest is returned when a simulation request exceeds
// the configured batch cap.
var ErrBatchTooLargeBadRequest = fiber.NewError(fiber.StatusBadRequest, "too many mints in one batch")

// ErrCurveOpFailedInternal signals a generic server-side failure.
var ErrCurveOpFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "curve operation failed")

// NewFieldRequired returns a 400 Bad Request for a missing parameter.
func NewFieldRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" is required")
}

// NewInvalidUint128 returns a 400 Bad Request for a parameter that is not
// a decimal integer within the 128-bit range.
func NewInvalidUint128(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid u128 decimal: "+field)
}
