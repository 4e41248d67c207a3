package store

import (
	"context"
	"errors"
)

// Well-known keys. Each holds one JSON document that is rewritten wholesale.
const (
	KeyReminders = "reminders"
	KeyUser      = "user"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("not found")

// Store defines durable key/value persistence for whole serialized records.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
