package service

import "errors"

// ErrBatchTooLarge is returned when a simulation request carries more mint
// amounts than the configured cap allows.
var ErrBatchTooLarge = errors.New("too many mints in batch")
