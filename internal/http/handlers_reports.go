package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/reports"
)

// categoryJSON is a category with its display fields.
type categoryJSON struct {
	ID   int64                `json:"id"`
	Name string               `json:"name"`
	Icon string               `json:"icon,omitempty"`
	Type core.TransactionType `json:"type"`
}

// listItemJSON is one listed transaction with its category attached.
type listItemJSON struct {
	ID          int64                `json:"id"`
	Date        core.Date            `json:"date"`
	Type        core.TransactionType `json:"type"`
	Amount      core.Money           `json:"amount"`
	Description string               `json:"description,omitempty"`
	Category    categoryJSON         `json:"category"`
}

type listResponse struct {
	Data       []listItemJSON     `json:"data"`
	Pagination reports.Pagination `json:"pagination"`
}

type summaryTotals struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	NetBalance   float64 `json:"netBalance"`
}

type summaryResponse struct {
	Total             summaryTotals           `json:"total"`
	IncomeByCategory  []reports.CategoryShare `json:"incomeByCategory"`
	ExpenseByCategory []reports.CategoryShare `json:"expenseByCategory"`
}

type categoriesResponse struct {
	Data []categoryJSON `json:"data"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	page, limit, err := parsePagination(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	categoryID, err := parseCategoryFilter(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := s.reports.List(r.Context(), s.userID, reports.ListInput{
		From:       from,
		To:         to,
		Type:       parseTypeFilter(r),
		CategoryID: categoryID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	data := make([]listItemJSON, 0, len(res.Items))
	for _, row := range res.Items {
		data = append(data, listItemJSON{
			ID:          row.ID,
			Date:        row.Date,
			Type:        row.Type,
			Amount:      row.Amount,
			Description: row.Description,
			Category: categoryJSON{
				ID:   row.Category.ID,
				Name: row.Category.Name,
				Icon: row.Category.Icon,
				Type: row.Category.Type,
			},
		})
	}

	writeJSON(w, http.StatusOK, listResponse{Data: data, Pagination: res.Pagination})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	sum, err := s.reports.Summary(r.Context(), s.userID, from, to)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Total: summaryTotals{
			TotalIncome:  sum.TotalIncome,
			TotalExpense: sum.TotalExpense,
			NetBalance:   sum.NetBalance,
		},
		IncomeByCategory:  sum.IncomeByCategory,
		ExpenseByCategory: sum.ExpenseByCategory,
	})
}

func (s *Server) handleMonthHistory(w http.ResponseWriter, r *http.Request) {
	year, err := parseIntParam(r, "year")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	month, err := parseIntParam(r, "month")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := s.reports.MonthHistory(r.Context(), s.userID, year, month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleYearHistory(w http.ResponseWriter, r *http.Request) {
	year, err := parseIntParam(r, "year")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := s.reports.YearHistory(r.Context(), s.userID, year)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	rawType := r.URL.Query().Get("type")

	cacheKey := "all"
	var typ *core.TransactionType
	if rawType != "" {
		t := core.TransactionType(rawType)
		typ = &t
		cacheKey = rawType
	}

	if cats, ok := s.categoryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, toCategoriesResponse(cats))
		return
	}

	cats, err := s.reports.Categories(r.Context(), typ)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.categoryCache.Set(cacheKey, cats)

	writeJSON(w, http.StatusOK, toCategoriesResponse(cats))
}

func toCategoriesResponse(cats []core.Category) categoriesResponse {
	data := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		data = append(data, categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Type: c.Type})
	}
	return categoriesResponse{Data: data}
}
