package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayFirstRe  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	yearFirstRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	yearOnlyRe  = regexp.MustCompile(`^\d{4}$`)
)

// ParseDateIndo parses the date formats staff enter on document forms:
// dd-mm-yyyy, dd/mm/yyyy, yyyy-mm-dd, yyyy/mm/dd and a bare YYYY, which
// resolves to January 1st of that year. Returns nil when nothing matches.
func ParseDateIndo(input string) *time.Time {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}

	if m := yearFirstRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}

	if yearOnlyRe.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return makeDate(year, 1, 1)
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func makeDate(year, month, day int) *time.Time {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}
