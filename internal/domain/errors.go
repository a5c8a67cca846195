package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrConfigSourceFailure is returned when a config-table source cannot be read
	ErrConfigSourceFailure = errors.New("config table source failed")

	// ErrConfigNotFound is returned when the admin config service has no such table
	ErrConfigNotFound = errors.New("config table not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
