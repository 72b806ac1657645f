package http

import (
	"errors"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
)

func TestParseDateRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions?startDate=2024-03-01&endDate=2024-03-31", nil)
	from, to, err := parseDateRange(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if from.String() != "2024-03-01" || to.String() != "2024-03-31" {
		t.Fatalf("range = %s..%s", from, to)
	}

	for _, target := range []string{
		"/api/transactions",
		"/api/transactions?startDate=2024-03-01",
		"/api/transactions?startDate=bad&endDate=2024-03-31",
		"/api/transactions?startDate=2024-03-01&endDate=31/03/2024",
	} {
		r := httptest.NewRequest("GET", target, nil)
		if _, _, err := parseDateRange(r); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", target, err)
		}
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions", nil)
	page, limit, err := parsePagination(r)
	if err != nil || page != 0 || limit != 0 {
		t.Fatalf("absent params: %d/%d, %v", page, limit, err)
	}

	r = httptest.NewRequest("GET", "/api/transactions?page=3&limit=25", nil)
	page, limit, err = parsePagination(r)
	if err != nil || page != 3 || limit != 25 {
		t.Fatalf("explicit params: %d/%d, %v", page, limit, err)
	}

	r = httptest.NewRequest("GET", "/api/transactions?page=abc", nil)
	if _, _, err := parsePagination(r); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("non-numeric page: %v", err)
	}
}

func TestParseFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions", nil)
	if typ := parseTypeFilter(r); typ != nil {
		t.Fatalf("absent type filter = %v", *typ)
	}
	if id, err := parseCategoryFilter(r); err != nil || id != nil {
		t.Fatalf("absent category filter = %v, %v", id, err)
	}

	r = httptest.NewRequest("GET", "/api/transactions?type=income&categoryId=7", nil)
	if typ := parseTypeFilter(r); typ == nil || *typ != core.Income {
		t.Fatal("type filter not parsed")
	}
	id, err := parseCategoryFilter(r)
	if err != nil || id == nil || *id != 7 {
		t.Fatalf("category filter = %v, %v", id, err)
	}

	r = httptest.NewRequest("GET", "/api/transactions?categoryId=-1", nil)
	if _, err := parseCategoryFilter(r); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("negative categoryId: %v", err)
	}
}

func TestParseIDPath(t *testing.T) {
	r := httptest.NewRequest("DELETE", "/api/transactions/42", nil)
	r.SetPathValue("id", "42")
	id, err := parseIDPath(r)
	if err != nil || id != 42 {
		t.Fatalf("id = %d, %v", id, err)
	}

	for _, raw := range []string{"", "abc", "0", "-5"} {
		r := httptest.NewRequest("DELETE", "/api/transactions/x", nil)
		r.SetPathValue("id", raw)
		if _, err := parseIDPath(r); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("id %q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}
