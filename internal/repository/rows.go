package repository

import (
	"strconv"
	"strings"
	"time"
)

// Sheet cells come back as interface{} values; the API returns strings
// for most cells and float64 for plain numbers. These helpers absorb
// both so entity mapping stays in one place.

func cellString(row []interface{}, col int) string {
	if col >= len(row) || row[col] == nil {
		return ""
	}
	switch v := row[col].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func cellInt(row []interface{}, col int) int {
	if col >= len(row) || row[col] == nil {
		return 0
	}
	switch v := row[col].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func cellTime(row []interface{}, col int) time.Time {
	value := cellString(row, col)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
