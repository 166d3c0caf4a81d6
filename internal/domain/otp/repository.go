package otp

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/gen_mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for one-time codes.
type Repository interface {
	// CreatePending inserts a new pending record after atomically expiring
	// every prior pending record for the same account.
	CreatePending(ctx context.Context, record *Record) error

	// FindLatestPending returns the newest pending record for the account,
	// or nil when none exists.
	FindLatestPending(ctx context.Context, accountID string) (*Record, error)

	// MarkUsed consumes the exact record identified by recordID.
	MarkUsed(ctx context.Context, recordID uuid.UUID, usedAt time.Time) error

	// DeleteOlderThan prunes records past the retention window regardless
	// of status. Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
