package ledger

import (
	"context"

	"fintrack/internal/core"
)

// Store opens atomic units of work against the ledger tables. The concrete
// implementation lives in internal/storage; tests substitute fakes.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of work over the transaction table and both
// aggregate tables. Either Commit or Rollback must always be called;
// Rollback after a successful Commit must be harmless.
type Tx interface {
	// CategoryType returns the declared type of a category, or an error
	// wrapping core.ErrNotFound when the category does not exist.
	CategoryType(ctx context.Context, categoryID int64) (core.TransactionType, error)

	// InsertTransaction stores a new row and fills in t.ID.
	InsertTransaction(ctx context.Context, t *core.Transaction) error

	// GetTransaction fetches a row scoped to its owner, or an error
	// wrapping core.ErrNotFound.
	GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error)

	// UpdateTransaction overwrites the mutable fields of an existing row,
	// matched by (t.ID, t.UserID).
	UpdateTransaction(ctx context.Context, t core.Transaction) error

	// DeleteTransaction removes a row scoped to its owner.
	DeleteTransaction(ctx context.Context, userID string, id int64) error

	// AddToMonthBucket applies a signed delta to a month_history row,
	// inserting the row on first contribution. Values may go negative
	// while an operation is in flight; the store never clamps.
	AddToMonthBucket(ctx context.Context, d BucketDelta) error

	// AddToYearBucket does the same for year_history. d.Day is ignored.
	AddToYearBucket(ctx context.Context, d BucketDelta) error

	Commit() error
	Rollback() error
}

// EventPublisher receives ledger events after a successful commit. Delivery
// is best effort; failures are logged and never surfaced to the caller.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev Event) error
}

// Event describes one committed ledger mutation for downstream consumers.
type Event struct {
	Action        string
	TransactionID int64
	UserID        string
	Type          core.TransactionType
	AmountCents   int64
	Date          string
}

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
