package repository

import (
	"context"

	"telegram-relay-bot/internal/domain/model"
)

// UserRepository is the port for the durable user store. Creation and the
// joined-flag update must be atomic at the storage layer (insert-or-ignore /
// unconditional set) so concurrent first contacts cannot lose updates.
type UserRepository interface {
	// EnsureExists creates the record with joined=false if absent. It never
	// overwrites an existing record.
	EnsureExists(ctx context.Context, tx Tx, tgID int64) error
	// MarkJoined sets joined=true. Calling it again is a no-op.
	MarkJoined(ctx context.Context, tx Tx, tgID int64) error
	FindByID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	// IsJoined reports the current flag; absent users read as false.
	IsJoined(ctx context.Context, tx Tx, tgID int64) (bool, error)
	// ListIDs returns every known user id, for broadcast fan-out.
	ListIDs(ctx context.Context, tx Tx) ([]int64, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
