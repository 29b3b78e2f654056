package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidQueueSize    = errors.New("invalid queue size: must be non-negative")
	ErrInvalidConcurrency  = errors.New("invalid worker concurrency: must be non-negative")
	ErrInvalidExecutionTime = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidPollInterval = errors.New("invalid result poll interval: must be non-negative")
	ErrInvalidGracePeriod  = errors.New("invalid shutdown grace period: must be non-negative")
	ErrInvalidMaxAttempts  = errors.New("invalid max attempts: must be non-negative")
	ErrInvalidBackoff      = errors.New("invalid backoff duration: must be non-negative")
)
