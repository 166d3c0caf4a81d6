package snapshot

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/gen_mock_repository.go -package=mocks . Repository

import "context"

// Repository defines persistence for session snapshots.
type Repository interface {
	// Upsert stores the snapshot, replacing any prior snapshot for the account.
	Upsert(ctx context.Context, snap *Snapshot) error

	// FindByAccount returns the snapshot for the account, or nil when none exists.
	FindByAccount(ctx context.Context, accountID string) (*Snapshot, error)
}
