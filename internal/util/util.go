package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"January 2, 2006",
	"Jan 2, 2006",
}

// StringOrEmpty dereferences s, returning "" for nil.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AtoiOrZero parses a leading integer the way loose spreadsheet input is
// usually written ("2", " 2 ", "2.0", "2 years"). Anything else yields 0.
func AtoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// LastDigits returns the last n decimal digits of v, or all of them when v
// has fewer than n digits.
func LastDigits(v int64, n int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// ParseDate accepts the date formats found in test data workbooks. Values
// without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// DateOnly formats t as YYYY-MM-DD.
func DateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
