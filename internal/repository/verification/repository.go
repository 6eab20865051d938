package verification

import (
	"context"
	"time"
)

// Verification is one issued phone code.
type Verification struct {
	ID          string
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	Consumed    bool
	Attempts    int
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, v Verification) error
	// GetActive returns the newest unconsumed, unexpired verification for
	// the number, or domain.ErrNotFound.
	GetActive(ctx context.Context, phoneNumber string) (*Verification, error)
	MarkConsumed(ctx context.Context, id string) error
	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
}
