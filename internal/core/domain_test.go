package core

import (
	"errors"
	"strings"
	"testing"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:      "test_user_1",
		CategoryID:  1,
		Amount:      Money{Cents: 10000},
		Type:        Income,
		Date:        NewDate(2024, 3, 15),
		Description: "salary",
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Transaction)
		ok     bool
	}{
		{"valid", func(*Transaction) {}, true},
		{"valid without description", func(tr *Transaction) { tr.Description = "" }, true},
		{"zero amount", func(tr *Transaction) { tr.Amount = Money{} }, false},
		{"negative amount", func(tr *Transaction) { tr.Amount = Money{Cents: -100} }, false},
		{"bad type", func(tr *Transaction) { tr.Type = "transfer" }, false},
		{"missing category", func(tr *Transaction) { tr.CategoryID = 0 }, false},
		{"zero date", func(tr *Transaction) { tr.Date = Date{} }, false},
		{"long description", func(tr *Transaction) { tr.Description = strings.Repeat("x", 201) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransaction()
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
			}
		})
	}
}

func TestTransactionTypeValid(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Fatal("income and expense must be valid")
	}
	if TransactionType("goal").Valid() || TransactionType("").Valid() {
		t.Fatal("unknown types must be invalid")
	}
}

func TestDateParseAndFields(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Day() != 15 || d.Month() != 3 || d.Year() != 2024 {
		t.Fatalf("fields = (%d, %d, %d), want (15, 3, 2024)", d.Day(), d.Month(), d.Year())
	}
	if d.String() != "2024-03-15" {
		t.Fatalf("String() = %q", d.String())
	}

	if _, err := ParseDate("15/03/2024"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad layout, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 1, 10)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-10"` {
		t.Fatalf("marshal = %s", data)
	}

	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}
