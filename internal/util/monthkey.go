package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMonthKey parses a "YYYY-MM" month key. The month part tolerates a
// missing leading zero, so "2024-3" and "2024-03" name the same month.
func ParseMonthKey(s string) (year, month int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month key %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year in month key %q", s)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in month key %q", s)
	}

	return year, month, nil
}

// FormatMonthKey renders the canonical zero-padded month key.
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
