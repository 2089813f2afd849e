package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sourcegraph/conc/panics"
)

const defaultBaseYear = 2000

var (
	monthYearRe  = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s*(\d{4})\b`)
	monthOnlyRe  = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?$`)
	numericMYRe  = regexp.MustCompile(`^(\d{1,2})\s*[/\-.]\s*(\d{4})$`)
	numericYMRe  = regexp.MustCompile(`^(\d{4})\s*[/\-.]\s*(\d{1,2})$`)
	bareYearRe   = regexp.MustCompile(`^\d{4}$`)
	fuzzyYearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	dashReplacer = strings.NewReplacer("–", "-", "—", "-")
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// IsOngoing reports whether tok denotes an open-ended end date.
func IsOngoing(tok string) bool {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "present", "current":
		return true
	}
	return false
}

// ParseToken parses a single free-text date token. Partial dates resolve
// to the first day of the month, or January 1 for a bare year.
func (n *Normalizer) ParseToken(tok string) (time.Time, error) {
	s := strings.TrimSpace(dashReplacer.Replace(tok))
	if s == "" {
		return time.Time{}, ErrUnparseable
	}

	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		return date(year, monthIndex[strings.ToLower(m[1])]), nil
	}
	if m := numericMYRe.FindStringSubmatch(s); m != nil {
		return numericDate(m[2], m[1], tok)
	}
	if m := numericYMRe.FindStringSubmatch(s); m != nil {
		return numericDate(m[1], m[2], tok)
	}
	if bareYearRe.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return date(year, time.January), nil
	}
	if m := monthOnlyRe.FindStringSubmatch(s); m != nil {
		return date(n.baseYear, monthIndex[strings.ToLower(m[1])]), nil
	}

	var (
		t   time.Time
		err error
	)
	r := panics.Try(func() { t, err = dateparse.ParseIn(s, time.UTC) })
	if r == nil && err == nil {
		return t.UTC(), nil
	}
	// Words around a year ("Summer 2018") resolve to January of that year.
	if y := fuzzyYearRe.FindString(s); y != "" {
		year, _ := strconv.Atoi(y)
		return date(year, time.January), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, tok)
}

func numericDate(yearStr, monthStr, tok string) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, tok)
	}
	return date(year, time.Month(month)), nil
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
