package repositories

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Load when nothing is stored
var ErrSlotEmpty = errors.New("session slot is empty")

// SessionRepository defines durable storage for the single session slot.
// Values are opaque to the repository.
type SessionRepository interface {
	Load(ctx context.Context) (string, error)
	Store(ctx context.Context, value string) error
	Delete(ctx context.Context) error
}
