package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/reports"
)

// ListTransactions returns one page of transactions joined with their
// category, newest first, plus the unpaginated match count. Filters are
// composed as predicates with bound parameters; limit and offset are bound
// too, never spliced into the query text.
func (r *Repository) ListTransactions(ctx context.Context, q reports.ListQuery) ([]reports.TransactionRow, int, error) {
	where := []string{"t.user_id = $1", "t.date BETWEEN $2 AND $3"}
	args := []any{q.UserID, q.From.String(), q.To.String()}
	if q.Type != nil {
		args = append(args, string(*q.Type))
		where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		where = append(where, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions t WHERE "+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT t.id, t.date, t.type, t.amount_cents, t.description,
		       c.id, c.name, c.icon, c.type
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE %s
		ORDER BY t.date DESC, t.id DESC
		LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var items []reports.TransactionRow
	for rows.Next() {
		var (
			row  reports.TransactionRow
			date string
			desc sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &date, &row.Type, &row.Amount.Cents, &desc,
			&row.Category.ID, &row.Category.Name, &row.Category.Icon, &row.Category.Type,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		if row.Date, err = core.ParseDate(date); err != nil {
			return nil, 0, fmt.Errorf("stored date %q: %w", date, err)
		}
		row.Description = desc.String
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}

	return items, total, nil
}

// RangeTotals sums income and expense over a date range in one pass.
func (r *Repository) RangeTotals(ctx context.Context, userID string, from, to core.Date) (reports.Totals, error) {
	var t reports.Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`,
		userID, from.String(), to.String(),
	).Scan(&t.IncomeCents, &t.ExpenseCents)
	if err != nil {
		return reports.Totals{}, fmt.Errorf("select range totals: %w", err)
	}
	return t, nil
}

// CategoryTotals groups one side's amounts by category, largest first.
func (r *Repository) CategoryTotals(ctx context.Context, userID string, typ core.TransactionType, from, to core.Date) ([]reports.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.icon, COALESCE(SUM(t.amount_cents), 0) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = $2 AND t.date BETWEEN $3 AND $4
		GROUP BY c.id, c.name, c.icon
		ORDER BY total DESC`,
		userID, string(typ), from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("select category totals: %w", err)
	}
	defer rows.Close()

	var totals []reports.CategoryTotal
	for rows.Next() {
		var ct reports.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Icon, &ct.AmountCents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}

// MonthHistory returns the per-day aggregate rows for one month, day ascending.
func (r *Repository) MonthHistory(ctx context.Context, userID string, year, month int) ([]reports.DayTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, income_cents, expense_cents
		FROM month_history
		WHERE user_id = $1 AND year = $2 AND month = $3
		ORDER BY day`,
		userID, year, month,
	)
	if err != nil {
		return nil, fmt.Errorf("select month history: %w", err)
	}
	defer rows.Close()

	var days []reports.DayTotals
	for rows.Next() {
		var d reports.DayTotals
		if err := rows.Scan(&d.Day, &d.IncomeCents, &d.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan month history: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month history: %w", err)
	}
	return days, nil
}

// YearHistory returns the per-month aggregate rows for one year, month ascending.
func (r *Repository) YearHistory(ctx context.Context, userID string, year int) ([]reports.MonthTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, income_cents, expense_cents
		FROM year_history
		WHERE user_id = $1 AND year = $2
		ORDER BY month`,
		userID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("select year history: %w", err)
	}
	defer rows.Close()

	var months []reports.MonthTotals
	for rows.Next() {
		var m reports.MonthTotals
		if err := rows.Scan(&m.Month, &m.IncomeCents, &m.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan year history: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate year history: %w", err)
	}
	return months, nil
}

// ListCategories lists categories ordered by name, optionally one type only.
func (r *Repository) ListCategories(ctx context.Context, typ *core.TransactionType) ([]core.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if typ != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, name, icon, type FROM categories WHERE type = $1 ORDER BY name`, string(*typ))
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, name, icon, type FROM categories ORDER BY name`)
	}
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}
