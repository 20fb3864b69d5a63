// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// JSON bodies, category references and report query parameters.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"financetrack/internal/core"
	"financetrack/internal/storage"
)

const (
	maxBodyBytes = 1 << 20
	maxWeeks     = 104
)

var (
	errBadBody  = errors.New("invalid request body")
	errBadQuery = errors.New("invalid query parameter")
)

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if core.IsValidationError(err) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// CategoryRef is a category id sent either as a plain string or as an
// object carrying "_id" or "id".
type CategoryRef string

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CategoryRef(strings.TrimSpace(s))
	case '{':
		var obj map[string]interface{}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		id := stringValue(obj["_id"])
		if id == "" {
			id = stringValue(obj["id"])
		}
		*c = CategoryRef(strings.TrimSpace(id))
	default:
		var v interface{}
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = CategoryRef(stringValue(v))
	}
	return nil
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// pickCategory prefers an explicit categoryId over a category reference.
func pickCategory(id string, ref *CategoryRef) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	if ref != nil {
		return string(*ref)
	}
	return ""
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(q url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := parseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadQuery, key)
	}
	return d, nil
}

// ParseTransactionFilter extracts the optional start, end, type and
// categoryId filters of a transaction listing.
func ParseTransactionFilter(q url.Values) (storage.TransactionFilter, error) {
	var (
		f   storage.TransactionFilter
		err error
	)
	if f.Start, err = queryDate(q, "start"); err != nil {
		return f, err
	}
	if f.End, err = queryDate(q, "end"); err != nil {
		return f, err
	}
	f.Type = core.TxType(strings.ToLower(strings.TrimSpace(q.Get("type"))))
	f.CategoryID = strings.TrimSpace(q.Get("categoryId"))
	return f, nil
}

// ParseWeeks reads the weeks parameter of the weekly report. Zero means the
// configured default.
func ParseWeeks(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("weeks"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxWeeks {
		return 0, fmt.Errorf("%w: weeks must be between 1 and %d", errBadQuery, maxWeeks)
	}
	return n, nil
}
