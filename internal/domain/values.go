package domain

import (
	"database/sql"
	"encoding/json"
	"math"
)

const (
	msgYearType    = "year must be an integer"
	msgYearRange   = "year must be greater than or equal to 2000"
	msgSummary     = "summary must be a non-empty string"
	msgEmployeeRef = "invalid employee id"
)

// YearFrom converts a loosely typed value (decoded JSON, a scanned column)
// into a year. Anything that is not an integer fails with ErrInvalidYear.
func YearFrom(v any) (int, error) {
	n, ok := integer(v)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, invalid(ErrInvalidYear, msgYearType)
	}
	return int(n), nil
}

// SummaryFrom accepts strings only; NULL and other types fail with ErrInvalidSummary.
func SummaryFrom(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case *string:
		if s != nil {
			return *s, nil
		}
	case sql.NullString:
		if s.Valid {
			return s.String, nil
		}
	}
	return "", invalid(ErrInvalidSummary, msgSummary)
}

// EmployeeIDFrom accepts integers only; existence is checked by SetEmployeeID.
func EmployeeIDFrom(v any) (int64, error) {
	n, ok := integer(v)
	if !ok {
		return 0, invalid(ErrInvalidEmployee, msgEmployeeRef)
	}
	return n, nil
}

// integer reports whether v holds an integral number. Booleans and numeric
// numeric strings and floats are rejected.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case sql.NullInt64:
		return n.Int64, n.Valid
	case *int64:
		if n == nil {
			return 0, false
		}
		return *n, true
	}
	return 0, false
}
