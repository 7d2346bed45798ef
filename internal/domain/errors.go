package domain

import (
	"errors"
)

var (
	// ErrCacheUnavailable is returned when the cache client was never
	// connected or has been closed.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrQueueNotConnected is returned when a queue operation is attempted
	// before Connect succeeded or after the connection dropped.
	ErrQueueNotConnected = errors.New("queue not connected")

	// ErrStorageNotInitialized is returned when the database handle is
	// requested before the pool was opened.
	ErrStorageNotInitialized = errors.New("storage not initialized")
)
