package config

import "errors"

// ErrInvalidMaxMintsPerBatch indicates that MAX_MINTS_PER_BATCH is set but
// is not a positive integer.
var ErrInvalidMaxMintsPerBatch = errors.New("MAX_MINTS_PER_BATCH must be a positive integer")
