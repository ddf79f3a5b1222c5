// Package dateutils normalizes the free-text dates found on card statements
// to the DD-MM-YYYY form used by every export.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayoutCanonical is the output layout (DD-MM-YYYY).
const DateLayoutCanonical = "02-01-2006"

var (
	canonicalDate  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	slashDate      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dayFirstDate   = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})$`)
	shortYearDate  = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2})$`)
	yearFirstDate  = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	bareDay        = regexp.MustCompile(`^\d{1,2}$`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// monthNameLayouts are tried after the numeric patterns.
var monthNameLayouts = []string{
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"02 Jan 06",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Normalizer converts dates. The clock only matters for bare day numbers.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a Normalizer that resolves bare days against now. A
// nil now uses time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

var defaultNormalizer = NewNormalizer(nil)

// NormalizeDate normalizes with the wall clock.
func NormalizeDate(dateStr string) string {
	return defaultNormalizer.Normalize(dateStr)
}

// Normalize returns dateStr as DD-MM-YYYY when it matches a known pattern and
// the trimmed input, inner spacing untouched, otherwise. Day-first is
// assumed whenever the first two groups are both plausible, so month-first
// sources are misread.
func (n *Normalizer) Normalize(dateStr string) string {
	original := strings.TrimSpace(dateStr)
	dateStr = CleanDateString(original)
	if dateStr == "" {
		return ""
	}

	if IsCanonical(dateStr) {
		return dateStr
	}
	if m := slashDate.FindStringSubmatch(dateStr); m != nil {
		return join(m[1], m[2], m[3])
	}
	if m := dayFirstDate.FindStringSubmatch(dateStr); m != nil {
		return join(m[1], m[2], m[3])
	}
	if m := shortYearDate.FindStringSubmatch(dateStr); m != nil {
		return join(m[1], m[2], "20"+m[3])
	}
	if m := yearFirstDate.FindStringSubmatch(dateStr); m != nil {
		return join(m[3], m[2], m[1])
	}
	if bareDay.MatchString(dateStr) {
		if out, ok := n.dayOfCurrentMonth(dateStr); ok {
			return out
		}
		return original
	}
	if t, err := parseMonthName(dateStr); err == nil {
		return t.Format(DateLayoutCanonical)
	}

	return original
}

func (n *Normalizer) dayOfCurrentMonth(day string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	now := n.now()
	return fmt.Sprintf("%02d-%02d-%04d", d, int(now.Month()), now.Year()), true
}

func parseMonthName(dateStr string) (time.Time, error) {
	for _, layout := range monthNameLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

func join(day, month, year string) string {
	return pad2(day) + "-" + pad2(month) + "-" + year
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// CleanDateString trims the value and collapses inner whitespace runs.
func CleanDateString(dateStr string) string {
	return whitespaceRuns.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// IsCanonical reports whether s is already DD-MM-YYYY.
func IsCanonical(s string) bool {
	return canonicalDate.MatchString(s)
}
