package core

import (
	"errors"
	"fmt"
	"strings"
)

// TransactionType discriminates the two sides of the ledger.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Error taxonomy. Every error surfaced by the services wraps one of these
// sentinels so callers can classify with errors.Is.
var (
	// ErrInvalidInput marks missing or malformed request parameters,
	// rejected before any store interaction.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced transaction or category that does not
	// exist for the given caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a category/transaction type mismatch.
	ErrConflict = errors.New("conflict")
)

type (
	// Transaction is a single ledger entry. Amount is always positive; the
	// direction of its effect on balances is carried by Type.
	Transaction struct {
		ID          int64
		UserID      string
		CategoryID  int64
		Amount      Money
		Type        TransactionType
		Date        Date
		Description string
	}

	// Category is a read-only lookup entity from the ledger's perspective.
	Category struct {
		ID   int64
		Name string
		Icon string
		Type TransactionType
	}
)

// Validate checks the invariants that must hold before a transaction is
// allowed near the store.
func (t Transaction) Validate() error {
	if t.Amount.Cents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unsupported transaction type %q", ErrInvalidInput, t.Type)
	}
	if t.CategoryID <= 0 {
		return fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalidInput)
	}
	return nil
}
