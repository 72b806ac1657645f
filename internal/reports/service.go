// Package reports implements the read-only side of the ledger: paginated
// transaction listings, range summaries with per-category breakdowns, and
// the precomputed day/month history views. Read paths have no consistency
// hazard and run outside any unit of work.
package reports

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// Defaults for unspecified pagination parameters.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// percentPolicy controls how a breakdown side's percentage shares are
// reported. The asymmetry between the two sides is observed behavior kept
// deliberately: income shares are exact fractions, expense shares are
// rounded to the nearest integer.
type percentPolicy int

const (
	percentExact percentPolicy = iota
	percentRounded
)

var (
	incomePercentPolicy  = percentExact
	expensePercentPolicy = percentRounded
)

// Service answers read-only queries over the ledger.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of transactions with category display fields,
// ordered by date descending.
func (s *Service) List(ctx context.Context, userID string, in ListInput) (ListResult, error) {
	if in.From.IsZero() || in.To.IsZero() {
		return ListResult{}, fmt.Errorf("%w: startDate and endDate are required", core.ErrInvalidInput)
	}
	if in.Type != nil && !in.Type.Valid() {
		return ListResult{}, fmt.Errorf("%w: unsupported transaction type %q", core.ErrInvalidInput, *in.Type)
	}

	page, limit := in.Page, in.Limit
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return ListResult{}, fmt.Errorf("%w: page must be at least 1", core.ErrInvalidInput)
	}
	if limit < 1 {
		return ListResult{}, fmt.Errorf("%w: limit must be at least 1", core.ErrInvalidInput)
	}
	offset := (page - 1) * limit

	items, total, err := s.store.ListTransactions(ctx, ListQuery{
		UserID:     userID,
		From:       in.From,
		To:         in.To,
		Type:       in.Type,
		CategoryID: in.CategoryID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list transactions: %w", err)
	}

	return ListResult{
		Items: items,
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: offset+limit < total,
			HasPrev: page > 1,
		},
	}, nil
}

// Summary computes range totals, net balance and both per-category
// breakdowns. The three queries are independent reads and run concurrently.
func (s *Service) Summary(ctx context.Context, userID string, from, to core.Date) (Summary, error) {
	if from.IsZero() || to.IsZero() {
		return Summary{}, fmt.Errorf("%w: startDate and endDate are required", core.ErrInvalidInput)
	}

	var (
		totals     Totals
		byIncome   []CategoryTotal
		byExpense  []CategoryTotal
		g, groupCtx = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		var err error
		totals, err = s.store.RangeTotals(groupCtx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		byIncome, err = s.store.CategoryTotals(groupCtx, userID, core.Income, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		byExpense, err = s.store.CategoryTotals(groupCtx, userID, core.Expense, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}

	return Summary{
		TotalIncome:       centsToUnits(totals.IncomeCents),
		TotalExpense:      centsToUnits(totals.ExpenseCents),
		NetBalance:        centsToUnits(totals.IncomeCents - totals.ExpenseCents),
		IncomeByCategory:  buildShares(byIncome, totals.IncomeCents, incomePercentPolicy),
		ExpenseByCategory: buildShares(byExpense, totals.ExpenseCents, expensePercentPolicy),
	}, nil
}

// MonthHistory returns the month_history rows for (year, month), ordered by
// day ascending.
func (s *Service) MonthHistory(ctx context.Context, userID string, year, month int) (MonthHistoryResult, error) {
	if year <= 0 {
		return MonthHistoryResult{}, fmt.Errorf("%w: valid year is required", core.ErrInvalidInput)
	}
	if month < 1 || month > 12 {
		return MonthHistoryResult{}, fmt.Errorf("%w: month must be between 1 and 12", core.ErrInvalidInput)
	}

	rows, err := s.store.MonthHistory(ctx, userID, year, month)
	if err != nil {
		return MonthHistoryResult{}, fmt.Errorf("month history: %w", err)
	}

	res := MonthHistoryResult{Year: year, Month: month, Days: make([]DayHistory, 0, len(rows))}
	for _, r := range rows {
		res.Days = append(res.Days, DayHistory{
			Day:     r.Day,
			Income:  centsToUnits(r.IncomeCents),
			Expense: centsToUnits(r.ExpenseCents),
		})
	}
	return res, nil
}

// YearHistory returns the year_history rows for a year, ordered by month
// ascending.
func (s *Service) YearHistory(ctx context.Context, userID string, year int) (YearHistoryResult, error) {
	if year <= 0 {
		return YearHistoryResult{}, fmt.Errorf("%w: valid year is required", core.ErrInvalidInput)
	}

	rows, err := s.store.YearHistory(ctx, userID, year)
	if err != nil {
		return YearHistoryResult{}, fmt.Errorf("year history: %w", err)
	}

	res := YearHistoryResult{Year: year, Months: make([]MonthOfYearHistory, 0, len(rows))}
	for _, r := range rows {
		res.Months = append(res.Months, MonthOfYearHistory{
			Month:   r.Month,
			Income:  centsToUnits(r.IncomeCents),
			Expense: centsToUnits(r.ExpenseCents),
		})
	}
	return res, nil
}

// Categories lists categories, optionally filtered by type, ordered by name.
func (s *Service) Categories(ctx context.Context, typ *core.TransactionType) ([]core.Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, fmt.Errorf("%w: unsupported category type %q", core.ErrInvalidInput, *typ)
	}
	cats, err := s.store.ListCategories(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// buildShares converts raw category totals into breakdown entries with
// percentage shares. A zero side total yields 0 percent for every entry.
func buildShares(totals []CategoryTotal, sideTotalCents int64, policy percentPolicy) []CategoryShare {
	shares := make([]CategoryShare, 0, len(totals))
	for _, t := range totals {
		var pct float64
		if sideTotalCents > 0 {
			pct = float64(t.AmountCents) / float64(sideTotalCents) * 100
			if policy == percentRounded {
				pct = math.Round(pct)
			}
		}
		shares = append(shares, CategoryShare{
			CategoryID:  t.CategoryID,
			Name:        t.Name,
			Icon:        t.Icon,
			TotalAmount: centsToUnits(t.AmountCents),
			Percentage:  pct,
		})
	}
	return shares
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100.0
}
