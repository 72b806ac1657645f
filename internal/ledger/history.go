package ledger

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// BucketDelta is a signed contribution to one aggregate row. Day is zero for
// year-granularity rows.
type BucketDelta struct {
	UserID  string
	Day     int
	Month   int
	Year    int
	Income  int64 // cents, signed
	Expense int64 // cents, signed
}

// contribution is one transaction's signed effect on the aggregates. Cents
// is positive when applying a transaction and negative when reversing it.
type contribution struct {
	userID string
	date   core.Date
	typ    core.TransactionType
	cents  int64
}

// applyContribution decomposes the date into calendar fields and applies the
// delta to both aggregate tables. It relies on the enclosing unit of work
// for atomicity and has no failure modes of its own beyond the store's.
func applyContribution(ctx context.Context, tx Tx, c contribution) error {
	var income, expense int64
	switch c.typ {
	case core.Income:
		income = c.cents
	case core.Expense:
		expense = c.cents
	}

	d := BucketDelta{
		UserID:  c.userID,
		Day:     c.date.Day(),
		Month:   c.date.Month(),
		Year:    c.date.Year(),
		Income:  income,
		Expense: expense,
	}
	if err := tx.AddToMonthBucket(ctx, d); err != nil {
		return fmt.Errorf("month bucket %d-%02d-%02d: %w", d.Year, d.Month, d.Day, err)
	}

	d.Day = 0
	if err := tx.AddToYearBucket(ctx, d); err != nil {
		return fmt.Errorf("year bucket %d-%02d: %w", d.Year, d.Month, err)
	}
	return nil
}
