package bondingcurve

import "errors"

// The closed set of failure kinds the curve produces. Callers map these to
// their transport representation; nothing here retries or wraps.
var (
	// ErrInvalidConfig covers malformed construction parameters and any
	// arithmetic step whose result exceeds the 128-bit working width.
	ErrInvalidConfig = errors.New("invalid curve config")

	// ErrOutOfRange reports a step outside [0, sell_amount].
	ErrOutOfRange = errors.New("step out of range")

	// ErrZeroInput reports a zero amount where a positive one is required.
	ErrZeroInput = errors.New("zero input amount")

	// ErrExceedsPool reports a requested asset amount larger than the
	// remaining real reserve at the given step.
	ErrExceedsPool = errors.New("amount exceeds pool reserve")
)
