package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// "Jan 05, 2024" at the start of a line (PhonePe and similar exports).
	datePatternMonthFirst = regexp.MustCompile(`^(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{2},\s+\d{4}`)

	// "5 Jan" anywhere in a line, year not printed (Paytm).
	datePatternDayMonth = regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`)

	// DD/MM/YYYY (SuperMoney).
	datePatternSlash = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

	yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

	// filenames use '_' as a separator, which \b treats as a word character
	nameYearPattern = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)

	spacePattern = regexp.MustCompile(`\s+`)
)

// normalizeSpaces collapses whitespace runs to single spaces and trims.
func normalizeSpaces(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// cleanAmount keeps only digits, '.' and '-'.
func cleanAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseRupees converts "1,234.56" into a decimal.
func parseRupees(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// findYear returns the first 20xx year in text, or 0.
func findYear(text string) int {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// YearFromName extracts a 20xx year from a filename such as
// "paytm_statement_2023.pdf". It returns 0 when none is present.
func YearFromName(name string) int {
	m := nameYearPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// dayMonth builds a UTC calendar date and rejects impossible days.
func dayMonth(day int, month time.Month, year int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// monthOf maps "jan", "Jan" or "JANUARY" onto a month, or 0.
func monthOf(name string) time.Month {
	if len(name) < 3 {
		return 0
	}
	t, err := time.Parse("Jan", titleMonth(name[:3]))
	if err != nil {
		return 0
	}
	return t.Month()
}

func titleMonth(m string) string {
	m = strings.ToLower(m)
	return strings.ToUpper(m[:1]) + m[1:]
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
