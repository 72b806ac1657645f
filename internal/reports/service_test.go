package reports

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

type fakeStore struct {
	rows       []TransactionRow
	total      int
	totals     Totals
	byIncome   []CategoryTotal
	byExpense  []CategoryTotal
	days       []DayTotals
	months     []MonthTotals
	categories []core.Category

	lastQuery ListQuery
	listCalls int
	catCalls  int
	err       error
}

func (f *fakeStore) ListTransactions(ctx context.Context, q ListQuery) ([]TransactionRow, int, error) {
	f.lastQuery = q
	f.listCalls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.rows, f.total, nil
}

func (f *fakeStore) RangeTotals(ctx context.Context, userID string, from, to core.Date) (Totals, error) {
	return f.totals, f.err
}

func (f *fakeStore) CategoryTotals(ctx context.Context, userID string, typ core.TransactionType, from, to core.Date) ([]CategoryTotal, error) {
	if typ == core.Income {
		return f.byIncome, f.err
	}
	return f.byExpense, f.err
}

func (f *fakeStore) MonthHistory(ctx context.Context, userID string, year, month int) ([]DayTotals, error) {
	return f.days, f.err
}

func (f *fakeStore) YearHistory(ctx context.Context, userID string, year int) ([]MonthTotals, error) {
	return f.months, f.err
}

func (f *fakeStore) ListCategories(ctx context.Context, typ *core.TransactionType) ([]core.Category, error) {
	f.catCalls++
	return f.categories, f.err
}

const user = "test_user_1"

func dateRange() (core.Date, core.Date) {
	return core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31)
}

func TestListRequiresDateRange(t *testing.T) {
	svc := NewService(&fakeStore{})
	from, to := dateRange()

	cases := []ListInput{
		{},
		{From: from},
		{To: to},
	}
	for i, in := range cases {
		if _, err := svc.List(context.Background(), user, in); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestListDefaultsAndOffset(t *testing.T) {
	store := &fakeStore{total: 35}
	svc := NewService(store)
	from, to := dateRange()

	res, err := svc.List(context.Background(), user, ListInput{From: from, To: to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastQuery.Limit != 10 || store.lastQuery.Offset != 0 {
		t.Fatalf("query = limit %d offset %d, want 10/0", store.lastQuery.Limit, store.lastQuery.Offset)
	}
	p := res.Pagination
	if p.Page != 1 || p.Limit != 10 || p.Total != 35 || !p.HasNext || p.HasPrev {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestListPaginationFlags(t *testing.T) {
	cases := []struct {
		page, limit, total int
		hasNext, hasPrev   bool
	}{
		{1, 10, 35, true, false},
		{2, 10, 35, true, true},
		{4, 10, 35, false, true},
		{1, 10, 10, false, false},
		{1, 10, 0, false, false},
	}
	for _, tc := range cases {
		store := &fakeStore{total: tc.total}
		svc := NewService(store)
		from, to := dateRange()

		res, err := svc.List(context.Background(), user, ListInput{From: from, To: to, Page: tc.page, Limit: tc.limit})
		if err != nil {
			t.Fatalf("list page %d: %v", tc.page, err)
		}
		if res.Pagination.HasNext != tc.hasNext || res.Pagination.HasPrev != tc.hasPrev {
			t.Fatalf("page %d/%d total %d: pagination = %+v", tc.page, tc.limit, tc.total, res.Pagination)
		}
		wantOffset := (tc.page - 1) * tc.limit
		if store.lastQuery.Offset != wantOffset {
			t.Fatalf("offset = %d, want %d", store.lastQuery.Offset, wantOffset)
		}
	}
}

func TestListRejectsBadPagination(t *testing.T) {
	svc := NewService(&fakeStore{})
	from, to := dateRange()

	for _, in := range []ListInput{
		{From: from, To: to, Page: -1},
		{From: from, To: to, Limit: -5},
	} {
		if _, err := svc.List(context.Background(), user, in); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
}

func TestListPassesFilters(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	from, to := dateRange()

	typ := core.Expense
	catID := int64(7)
	if _, err := svc.List(context.Background(), user, ListInput{From: from, To: to, Type: &typ, CategoryID: &catID}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastQuery.Type == nil || *store.lastQuery.Type != core.Expense {
		t.Fatal("type filter not forwarded")
	}
	if store.lastQuery.CategoryID == nil || *store.lastQuery.CategoryID != 7 {
		t.Fatal("category filter not forwarded")
	}
}

func TestSummaryPercentagePolicies(t *testing.T) {
	store := &fakeStore{
		totals: Totals{IncomeCents: 30000, ExpenseCents: 30000},
		byIncome: []CategoryTotal{
			{CategoryID: 1, Name: "Salary", AmountCents: 10000},
		},
		byExpense: []CategoryTotal{
			{CategoryID: 2, Name: "Groceries", AmountCents: 10000},
		},
	}
	svc := NewService(store)
	from, to := dateRange()

	sum, err := svc.Summary(context.Background(), user, from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if sum.TotalIncome != 300 || sum.TotalExpense != 300 || sum.NetBalance != 0 {
		t.Fatalf("totals = %+v", sum)
	}

	// Income share is the exact fraction, expense share is rounded.
	incomePct := sum.IncomeByCategory[0].Percentage
	if incomePct == 33 {
		t.Fatal("income percentage should not be rounded")
	}
	if incomePct < 33.3 || incomePct > 33.4 {
		t.Fatalf("income percentage = %v, want ~33.33", incomePct)
	}
	if expensePct := sum.ExpenseByCategory[0].Percentage; expensePct != 33 {
		t.Fatalf("expense percentage = %v, want rounded 33", expensePct)
	}
}

func TestSummaryZeroTotalsNoDivisionByZero(t *testing.T) {
	store := &fakeStore{
		totals:    Totals{},
		byExpense: []CategoryTotal{{CategoryID: 2, Name: "Groceries", AmountCents: 0}},
	}
	svc := NewService(store)
	from, to := dateRange()

	sum, err := svc.Summary(context.Background(), user, from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.ExpenseByCategory) != 1 {
		t.Fatalf("expected 1 expense entry, got %d", len(sum.ExpenseByCategory))
	}
	if pct := sum.ExpenseByCategory[0].Percentage; pct != 0 {
		t.Fatalf("percentage = %v, want 0", pct)
	}
}

func TestSummaryRequiresRange(t *testing.T) {
	svc := NewService(&fakeStore{})
	if _, err := svc.Summary(context.Background(), user, core.Date{}, core.Date{}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMonthHistoryValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	cases := []struct{ year, month int }{
		{0, 3},
		{2024, 0},
		{2024, 13},
	}
	for _, tc := range cases {
		if _, err := svc.MonthHistory(context.Background(), user, tc.year, tc.month); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("(%d,%d): expected ErrInvalidInput, got %v", tc.year, tc.month, err)
		}
	}
}

func TestMonthHistoryCoercesToUnits(t *testing.T) {
	store := &fakeStore{days: []DayTotals{
		{Day: 15, IncomeCents: 10000, ExpenseCents: 0},
		{Day: 20, IncomeCents: 0, ExpenseCents: 2599},
	}}
	svc := NewService(store)

	res, err := svc.MonthHistory(context.Background(), user, 2024, 3)
	if err != nil {
		t.Fatalf("month history: %v", err)
	}
	if res.Year != 2024 || res.Month != 3 || len(res.Days) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Days[0].Income != 100 || res.Days[1].Expense != 25.99 {
		t.Fatalf("days = %+v", res.Days)
	}
}

func TestYearHistory(t *testing.T) {
	store := &fakeStore{months: []MonthTotals{{Month: 1, IncomeCents: 500}}}
	svc := NewService(store)

	if _, err := svc.YearHistory(context.Background(), user, 0); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing year, got %v", err)
	}

	res, err := svc.YearHistory(context.Background(), user, 2024)
	if err != nil {
		t.Fatalf("year history: %v", err)
	}
	if len(res.Months) != 1 || res.Months[0].Income != 5 {
		t.Fatalf("result = %+v", res)
	}
}

func TestCategoriesTypeValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	bad := core.TransactionType("goal")
	if _, err := svc.Categories(context.Background(), &bad); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
