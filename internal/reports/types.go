package reports

import (
	"context"

	"fintrack/internal/core"
)

// Store is the read-only view of the ledger the report service needs. The
// concrete implementation lives in internal/storage.
type Store interface {
	ListTransactions(ctx context.Context, q ListQuery) ([]TransactionRow, int, error)
	RangeTotals(ctx context.Context, userID string, from, to core.Date) (Totals, error)
	CategoryTotals(ctx context.Context, userID string, typ core.TransactionType, from, to core.Date) ([]CategoryTotal, error)
	MonthHistory(ctx context.Context, userID string, year, month int) ([]DayTotals, error)
	YearHistory(ctx context.Context, userID string, year int) ([]MonthTotals, error)
	ListCategories(ctx context.Context, typ *core.TransactionType) ([]core.Category, error)
}

// ListQuery is the fully-resolved filter set for a transaction listing.
// Limit and Offset are always bound as query parameters, never interpolated.
type ListQuery struct {
	UserID     string
	From, To   core.Date
	Type       *core.TransactionType
	CategoryID *int64
	Limit      int
	Offset     int
}

// TransactionRow is a transaction joined with its category's display fields.
type TransactionRow struct {
	ID          int64
	Date        core.Date
	Type        core.TransactionType
	Amount      core.Money
	Description string
	Category    core.Category
}

// Totals are the income/expense sums over a date range, in cents.
type Totals struct {
	IncomeCents  int64
	ExpenseCents int64
}

// CategoryTotal is one category's share of a range total.
type CategoryTotal struct {
	CategoryID  int64
	Name        string
	Icon        string
	AmountCents int64
}

// DayTotals is one month_history row.
type DayTotals struct {
	Day          int
	IncomeCents  int64
	ExpenseCents int64
}

// MonthTotals is one year_history row.
type MonthTotals struct {
	Month        int
	IncomeCents  int64
	ExpenseCents int64
}

// ListInput is the caller-facing form of a listing request. Page and Limit
// of zero mean "unspecified" and fall back to 1 and 10.
type ListInput struct {
	From, To   core.Date
	Type       *core.TransactionType
	CategoryID *int64
	Page       int
	Limit      int
}

// Pagination describes the window a listing returned.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ListResult is a page of transactions plus its pagination envelope.
type ListResult struct {
	Items      []TransactionRow
	Pagination Pagination
}

// CategoryShare is one entry of a summary breakdown. Percentage follows the
// side's percentPolicy.
type CategoryShare struct {
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	TotalAmount float64 `json:"totalAmount"`
	Percentage  float64 `json:"percentage"`
}

// Summary is the aggregate report over a date range.
type Summary struct {
	TotalIncome       float64         `json:"totalIncome"`
	TotalExpense      float64         `json:"totalExpense"`
	NetBalance        float64         `json:"netBalance"`
	IncomeByCategory  []CategoryShare `json:"incomeByCategory"`
	ExpenseByCategory []CategoryShare `json:"expenseByCategory"`
}

// DayHistory is one day's totals in currency units.
type DayHistory struct {
	Day     int     `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthHistoryResult is the month_history view for one (year, month).
type MonthHistoryResult struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Days  []DayHistory `json:"days"`
}

// MonthOfYearHistory is one month's totals in currency units.
type MonthOfYearHistory struct {
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// YearHistoryResult is the year_history view for one year.
type YearHistoryResult struct {
	Year   int                  `json:"year"`
	Months []MonthOfYearHistory `json:"months"`
}
