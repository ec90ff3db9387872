// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr             string
	LogLevel         string
	MaxMintsPerBatch int
}

// defaultMaxMintsPerBatch bounds the /simulate payload so a single request
// cannot hold a worker on an unbounded fold.
const defaultMaxMintsPerBatch = 512

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	maxMints := defaultMaxMintsPerBatch
	if v := os.Getenv("MAX_MINTS_PER_BATCH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, ErrInvalidMaxMintsPerBatch
		}
		maxMints = n
	}

	cfg := &Config{
		Addr:             addr,
		LogLevel:         logLevel,
		MaxMintsPerBatch: maxMints,
	}

	return cfg, nil
}
