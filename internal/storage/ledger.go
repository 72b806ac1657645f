package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ledgerTx wraps one sql.Tx as the ledger's unit of work. Every statement
// keeps its $N parameters in first-use order so the same text binds
// positionally on both dialects.
type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) CategoryType(ctx context.Context, categoryID int64) (core.TransactionType, error) {
	var typ core.TransactionType
	err := t.tx.QueryRowContext(ctx,
		`SELECT type FROM categories WHERE id = $1`, categoryID).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select category type: %w", err)
	}
	return typ, nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, tr *core.Transaction) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, category_id, amount_cents, type, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		tr.UserID, tr.CategoryID, tr.Amount.Cents, string(tr.Type), tr.Date.String(), nullString(tr.Description),
	).Scan(&tr.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (t *ledgerTx) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	var (
		tr   core.Transaction
		date string
		desc sql.NullString
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, amount_cents, type, date, description
		FROM transactions
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&tr.ID, &tr.UserID, &tr.CategoryID, &tr.Amount.Cents, &tr.Type, &date, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}

	tr.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	tr.Description = desc.String
	return tr, nil
}

func (t *ledgerTx) UpdateTransaction(ctx context.Context, tr core.Transaction) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, amount_cents = $2, type = $3, date = $4,
		    description = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND user_id = $7`,
		tr.CategoryID, tr.Amount.Cents, string(tr.Type), tr.Date.String(), nullString(tr.Description),
		tr.ID, tr.UserID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (t *ledgerTx) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (t *ledgerTx) AddToMonthBucket(ctx context.Context, d ledger.BucketDelta) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO month_history (user_id, day, month, year, income_cents, expense_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, day, month, year)
		DO UPDATE SET
			income_cents = month_history.income_cents + excluded.income_cents,
			expense_cents = month_history.expense_cents + excluded.expense_cents`,
		d.UserID, d.Day, d.Month, d.Year, d.Income, d.Expense,
	)
	if err != nil {
		return fmt.Errorf("upsert month bucket: %w", err)
	}
	return nil
}

func (t *ledgerTx) AddToYearBucket(ctx context.Context, d ledger.BucketDelta) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO year_history (user_id, month, year, income_cents, expense_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, month, year)
		DO UPDATE SET
			income_cents = year_history.income_cents + excluded.income_cents,
			expense_cents = year_history.expense_cents + excluded.expense_cents`,
		d.UserID, d.Month, d.Year, d.Income, d.Expense,
	)
	if err != nil {
		return fmt.Errorf("upsert year bucket: %w", err)
	}
	return nil
}

func (t *ledgerTx) Commit() error {
	return t.tx.Commit()
}

func (t *ledgerTx) Rollback() error {
	return t.tx.Rollback()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireRow maps "no row touched" onto the not-found error so user-scoped
// writes against someone else's rows surface as missing, not as success.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
