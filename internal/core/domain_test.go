package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-03-09", NewDate(2025, 3, 9), true},
		{" 2025-03-09 ", NewDate(2025, 3, 9), true},
		{"2025-03-09T23:15:00Z", NewDate(2025, 3, 9), true},
		{"2025-03-09T23:15:00-05:00", NewDate(2025, 3, 10), true},
		{"09/03/2025", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 7, 4))
	if err != nil || string(b) != `"2025-07-04"` {
		t.Fatalf("marshal got %s (err=%v)", b, err)
	}
	b, _ = json.Marshal(Date{})
	if string(b) != "null" {
		t.Fatalf("zero date should marshal as null, got %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsEmpty() {
		t.Fatalf("null should decode to empty date, got %v (err=%v)", d, err)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero should be valid, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
	if err := (Money{Cents: MaxCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected error above MaxCents, got %v", err)
	}
}

func TestUserValidate(t *testing.T) {
	good := User{Name: "Ada", Email: "ada@example.com", Role: RoleUser}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []struct {
		name string
		u    User
		want error
	}{
		{"empty name", User{Name: " ", Email: "ada@example.com", Role: RoleUser}, ErrEmptyName},
		{"bad email", User{Name: "Ada", Email: "ada", Role: RoleUser}, ErrInvalidEmail},
		{"bad role", User{Name: "Ada", Email: "ada@example.com", Role: "root"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.u.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if err := ValidatePassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got %v", err)
	}
	if err := ValidatePassword("ééé"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("three characters should be weak, got %v", err)
	}
	if err := ValidatePassword("éééééé"); err != nil {
		t.Fatalf("six characters should pass, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:       Expense,
		CategoryID: "c1",
		Amount:     Money{Cents: 100},
		Date:       NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{func(tx *Transaction) { tx.CategoryID = "" }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Description = strings.Repeat("x", 201) }, ErrDescriptionLong},
		{func(tx *Transaction) { tx.Description = strings.Repeat("é", 201) }, ErrDescriptionLong},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	// Length counts characters, not bytes.
	accented := good
	accented.Description = strings.Repeat("é", 150)
	if err := accented.Validate(); err != nil {
		t.Fatalf("150 accented characters should be accepted, got %v", err)
	}

	for i, tc := range bads {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !IsValidationError(tx.Validate()) {
			t.Fatalf("case %d should classify as validation error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{Name: "Food", Type: Expense, Color: DefaultCategoryColor}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	c.Color = "red"
	if err := c.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestBudgetValidateAndRecompute(t *testing.T) {
	b := Budget{
		CategoryID: "c1",
		Amount:     Money{Cents: 50000},
		Spent:      Money{Cents: 62000},
		Period:     Monthly,
		StartDate:  NewDate(2025, 1, 1),
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b.Recompute()
	if b.Remaining.Cents != -12000 {
		t.Fatalf("remaining = %d, want -12000", b.Remaining.Cents)
	}

	b.EndDate = NewDate(2024, 12, 31)
	if err := b.Validate(); !errors.Is(err, ErrInvalidDateOrder) {
		t.Fatalf("expected ErrInvalidDateOrder, got %v", err)
	}
	b.EndDate = Date{}
	b.Period = "yearly"
	if err := b.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{Title: "Bike", TargetAmount: Money{Cents: 100000}, Status: GoalActive}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	g.Status = "paused"
	if err := g.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	g.Status = GoalActive
	g.Title = ""
	if err := g.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}
