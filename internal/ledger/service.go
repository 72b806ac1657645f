// Package ledger implements the transactional ledger-update protocol: every
// mutation of the transaction table and the derived month_history and
// year_history aggregates happens inside one atomic unit of work, with a
// reverse-then-apply discipline keeping the aggregates consistent with the
// transactions at every commit point.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// Service is the transaction lifecycle manager. All three mutations follow
// the same shape: validate, begin, read prerequisite state, mutate the
// transaction row, adjust both aggregate tables, commit. Any failure after
// begin rolls the whole unit of work back.
type Service struct {
	store  Store
	events EventPublisher // optional, may be nil
}

// NewService builds a lifecycle manager on top of a store. events may be nil
// when no broker is configured.
func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// CreateInput carries the caller-supplied fields for a new transaction.
type CreateInput struct {
	CategoryID  int64
	Amount      core.Money
	Type        core.TransactionType
	Date        core.Date
	Description string
}

// UpdateInput carries the replacement fields for an existing transaction.
type UpdateInput = CreateInput

// Create validates the input, checks the category inside the unit of work
// (the lookup and the insert must not be split across connections), inserts
// the row and applies its contribution to both aggregate tables.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (core.Transaction, error) {
	t := core.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.checkCategory(ctx, tx, in.CategoryID, in.Type); err != nil {
		return core.Transaction{}, err
	}

	if err := tx.InsertTransaction(ctx, &t); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := applyContribution(ctx, tx, contribution{
		userID: userID,
		date:   t.Date,
		typ:    t.Type,
		cents:  t.Amount.Cents,
	}); err != nil {
		return core.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"user_id", userID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	s.publish(ctx, ActionCreated, t)
	return t, nil
}

// Update replaces a transaction's fields. The old contribution is reversed
// using the stored type and date before the new one is applied, so a change
// of amount, type or date moves the totals between the right buckets.
func (s *Service) Update(ctx context.Context, userID string, id int64, in UpdateInput) error {
	t := core.Transaction{
		ID:          id,
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := t.Validate(); err != nil {
		return err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old, err := tx.GetTransaction(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("transaction %d: %w", id, err)
	}

	if err := s.checkCategory(ctx, tx, in.CategoryID, in.Type); err != nil {
		return err
	}

	if err := applyContribution(ctx, tx, contribution{
		userID: userID,
		date:   old.Date,
		typ:    old.Type,
		cents:  -old.Amount.Cents,
	}); err != nil {
		return err
	}

	if err := tx.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if err := applyContribution(ctx, tx, contribution{
		userID: userID,
		date:   t.Date,
		typ:    t.Type,
		cents:  t.Amount.Cents,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", id,
		"user_id", userID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	s.publish(ctx, ActionUpdated, t)
	return nil
}

// Delete removes a transaction and reverses its contribution using the
// stored type and date. Aggregate rows are left in place even when their
// totals return to zero.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old, err := tx.GetTransaction(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("transaction %d: %w", id, err)
	}

	if err := tx.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := applyContribution(ctx, tx, contribution{
		userID: userID,
		date:   old.Date,
		typ:    old.Type,
		cents:  -old.Amount.Cents,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", id,
		"user_id", userID,
		"type", old.Type,
		"amount_cents", old.Amount.Cents)

	s.publish(ctx, ActionDeleted, old)
	return nil
}

// checkCategory verifies the referenced category exists and that its
// declared type matches the requested transaction type.
func (s *Service) checkCategory(ctx context.Context, tx Tx, categoryID int64, typ core.TransactionType) error {
	catType, err := tx.CategoryType(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("category %d: %w", categoryID, err)
	}
	if catType != typ {
		return fmt.Errorf("%w: category type %q does not match transaction type %q", core.ErrConflict, catType, typ)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, action string, t core.Transaction) {
	if s.events == nil {
		return
	}
	ev := Event{
		Action:        action,
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          t.Type,
		AmountCents:   t.Amount.Cents,
		Date:          t.Date.String(),
	}
	if err := s.events.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"action", action,
			"transaction_id", t.ID,
			"error", err)
	}
}
