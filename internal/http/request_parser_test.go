package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"financetrack/internal/core"
	"financetrack/internal/services"
)

func TestCategoryRef_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  CategoryRef
	}{
		{"plain id", `{"category":"c1"}`, "c1"},
		{"object with _id", `{"category":{"_id":"c2","name":"Food"}}`, "c2"},
		{"object with id", `{"category":{"id":"c3"}}`, "c3"},
		{"_id wins over id", `{"category":{"_id":"c4","id":"c5"}}`, "c4"},
		{"numeric id", `{"category":42}`, "42"},
		{"null", `{"category":null}`, ""},
		{"padded", `{"category":"  c6 "}`, "c6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Category CategoryRef `json:"category"`
			}
			if err := json.Unmarshal([]byte(tt.input), &body); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if body.Category != tt.want {
				t.Errorf("Category = %q, want %q", body.Category, tt.want)
			}
		})
	}
}

func TestPickCategory(t *testing.T) {
	ref := CategoryRef("from-ref")
	if got := pickCategory("explicit", &ref); got != "explicit" {
		t.Errorf("pickCategory = %q, want explicit", got)
	}
	if got := pickCategory(" ", &ref); got != "from-ref" {
		t.Errorf("pickCategory = %q, want from-ref", got)
	}
	if got := pickCategory("", nil); got != "" {
		t.Errorf("pickCategory = %q, want empty", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"type":"expense","amount":"12,50","date":"2025-03-01"}`))
		var in services.TransactionInput
		if err := decodeJSON(httptest.NewRecorder(), req, &in); err != nil {
			t.Fatalf("decodeJSON error = %v", err)
		}
		if in.Amount.Cents != 1250 || in.Type != core.Expense || in.Date.String() != "2025-03-01" {
			t.Errorf("decoded = %+v", in)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(""))
		var in services.TransactionInput
		if err := decodeJSON(httptest.NewRecorder(), req, &in); err != nil {
			t.Fatalf("decodeJSON error = %v", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"type":`))
		var in services.TransactionInput
		err := decodeJSON(httptest.NewRecorder(), req, &in)
		if !errors.Is(err, errBadBody) {
			t.Fatalf("err = %v, want errBadBody", err)
		}
	})

	t.Run("invalid amount keeps validation error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"amount":"-3"}`))
		var in services.TransactionInput
		err := decodeJSON(httptest.NewRecorder(), req, &in)
		if !core.IsValidationError(err) {
			t.Fatalf("err = %v, want a validation error", err)
		}
	})
}

func TestParseTransactionFilter(t *testing.T) {
	f, err := ParseTransactionFilter(url.Values{
		"start":      {"2025-01-01"},
		"end":        {"2025-01-31"},
		"type":       {"Expense"},
		"categoryId": {" c1 "},
	})
	if err != nil {
		t.Fatalf("ParseTransactionFilter error = %v", err)
	}
	if f.Start.String() != "2025-01-01" || f.End.String() != "2025-01-31" {
		t.Errorf("range = %s..%s", f.Start, f.End)
	}
	if f.Type != core.Expense || f.CategoryID != "c1" {
		t.Errorf("filter = %+v", f)
	}

	empty, err := ParseTransactionFilter(url.Values{})
	if err != nil || !empty.Start.IsEmpty() || !empty.End.IsEmpty() || empty.Type != "" {
		t.Errorf("empty filter = %+v, %v", empty, err)
	}

	if _, err := ParseTransactionFilter(url.Values{"start": {"01/02/2025"}}); !errors.Is(err, errBadQuery) {
		t.Errorf("err = %v, want errBadQuery", err)
	}
}

func TestParseWeeks(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"4", 4, false},
		{"104", 104, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"105", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseWeeks(url.Values{"weeks": {tt.value}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("weeks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  groceries  ", "groceries"},
		{"line\x00break", "linebreak"},
		{"tab\tkept", "tab\tkept"},
		{"bell\x07", "bell"},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-02-29")
	if err != nil {
		t.Fatalf("parseDate error = %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("parseDate = %s", d)
	}
	if _, err := parseDate("2023-02-29"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestClientMessage(t *testing.T) {
	if got := clientMessage(services.ErrPasswordsDiffer); got != "Passwords do not match" {
		t.Errorf("clientMessage = %q", got)
	}
}
