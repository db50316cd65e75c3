package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// PaytmParser handles Paytm UPI statements.
//
// Records span several lines and open with a day and month ("5 Jan");
// the year is not printed next to each record. The amount appears
// somewhere in the record as "- Rs.250.00" or "+ Rs.1,000.00".
type PaytmParser struct {
	// YearHint is used when the statement header states no year.
	YearHint int
	// Now supplies the last-resort year.
	Now func() time.Time

	log zerolog.Logger
}

const (
	paytmMarker      = "Date & Time Transaction Details"
	paytmHeaderLines = 10

	YearFromHeader = "header"
	YearFromHint   = "filename"
	YearFromClock  = "clock"
)

var (
	paytmHeaderTotals = regexp.MustCompile(`Rs\.(\d+(?:,\d+)*\.\d{2})\s*\+\s*Rs\.(\d+(?:,\d+)*\.\d{2})`)
	paytmAmount       = regexp.MustCompile(`([+-])\s*Rs\.(\d+(?:,\d+)*\.\d{2})`)
	paytmPeriod       = regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*,?\s+(20\d{2})\s*(?:-|–|to)\s*(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*,?\s+(20\d{2})`)
)

// recordBuffer collects the lines of one multi-line record.
type recordBuffer struct {
	date    time.Time
	lineNum int
	lines   []string
}

func (b *recordBuffer) text() string {
	return normalizeSpaces(strings.Join(b.lines, " "))
}

func (p *PaytmParser) Name() string {
	return string(models.LayoutPaytm)
}

func (p *PaytmParser) Parse(pages []string) (*models.StatementInfo, error) {
	lines := splitLines(strings.Join(pages, "\n"))
	if len(lines) == 0 {
		return nil, &NoTransactionsError{Reasons: []string{"No text content found in PDF"}}
	}

	info := &models.StatementInfo{Layout: models.LayoutPaytm}
	info.HeaderTotals = headerTotals(lines)

	start := 0
	for i, line := range lines {
		if strings.Contains(line, paytmMarker) {
			start = i + 1
			break
		}
	}

	// without the marker, the first lines stand in for the header
	header := lines[:start]
	if start == 0 {
		header = lines[:min(paytmHeaderLines, len(lines))]
	}
	headerText := strings.Join(header, "\n")
	span := findPeriod(headerText)
	info.Year, info.YearSource = p.resolveYear(headerText, span)
	dates := &recordDates{year: info.Year, period: span}

	for i := 0; i < start; i++ {
		info.DebugLines = append(info.DebugLines, models.DebugLine{LineNum: i + 1, Text: lines[i], Result: "header"})
	}

	var buf *recordBuffer
	var reasons []string
	flush := func() {
		if buf == nil {
			return
		}
		txn, reason := p.flush(buf)
		if reason != "" {
			reasons = append(reasons, reason)
			info.DebugLines = append(info.DebugLines, models.DebugLine{
				LineNum: buf.lineNum, Text: buf.text(), HasDate: true, Result: "skipped", Reason: reason,
			})
		} else {
			info.Transactions = append(info.Transactions, txn)
			info.DebugLines = append(info.DebugLines, models.DebugLine{
				LineNum: buf.lineNum, Text: buf.text(), HasDate: true, Result: "parsed",
			})
		}
		buf = nil
	}

	for i := start; i < len(lines); i++ {
		line := lines[i]
		if buf == nil && paytmPeriod.MatchString(line) {
			info.DebugLines = append(info.DebugLines, models.DebugLine{LineNum: i + 1, Text: line, Result: "header"})
			continue
		}
		if date, ok := dates.start(line); ok {
			flush()
			buf = &recordBuffer{date: date, lineNum: i + 1, lines: []string{line}}
			continue
		}
		if buf != nil {
			buf.lines = append(buf.lines, line)
			continue
		}
		info.DebugLines = append(info.DebugLines, models.DebugLine{
			LineNum: i + 1, Text: line, Result: "skipped", Reason: "before first record",
		})
	}
	flush()

	if len(info.Transactions) == 0 {
		return nil, &NoTransactionsError{Reasons: reasons}
	}

	sort.SliceStable(info.Transactions, func(a, b int) bool {
		return info.Transactions[a].Date.After(info.Transactions[b].Date)
	})

	p.log.Debug().
		Int("transactions", len(info.Transactions)).
		Int("year", info.Year).
		Str("year_source", info.YearSource).
		Msg("paytm statement parsed")

	return info, nil
}

// flush turns a finished buffer into a transaction, or returns why it could not.
func (p *PaytmParser) flush(buf *recordBuffer) (models.Transaction, string) {
	text := buf.text()
	m := paytmAmount.FindStringSubmatch(text)
	if m == nil {
		return models.Transaction{}, fmt.Sprintf("line %d: no amount in record", buf.lineNum)
	}

	amount, err := parseRupees(m[2])
	if err != nil {
		return models.Transaction{}, fmt.Sprintf("line %d: invalid amount %q", buf.lineNum, m[2])
	}
	if m[1] == "-" {
		amount = amount.Neg()
	}
	if amount.IsZero() {
		return models.Transaction{}, fmt.Sprintf("line %d: zero amount", buf.lineNum)
	}

	category := "Credit"
	if amount.IsNegative() {
		category = "Debit"
	}

	return models.Transaction{
		Date:        buf.date,
		Amount:      amount,
		Description: text,
		Category:    category,
		Type:        models.TypeForAmount(amount),
	}, ""
}

// period is the date range a statement header says it covers.
type period struct {
	from, to time.Time
}

// findPeriod reads a "15 Dec 2023 - 15 Jan 2024" range from text.
func findPeriod(text string) *period {
	m := paytmPeriod.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	from, ok := periodDate(m[1], m[2], m[3])
	if !ok {
		return nil
	}
	to, ok := periodDate(m[4], m[5], m[6])
	if !ok || to.Before(from) {
		return nil
	}
	return &period{from: from, to: to}
}

func periodDate(day, month, year string) (time.Time, bool) {
	d, err1 := strconv.Atoi(day)
	y, err2 := strconv.Atoi(year)
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}
	return dayMonth(d, monthOf(month), y)
}

// place gives day and month the year that puts them inside the period.
// Dates outside it take the nearest candidate year.
func (p *period) place(day int, month time.Month) (time.Time, bool) {
	var best time.Time
	var bestGap time.Duration = -1
	for y := p.from.Year(); y <= p.to.Year(); y++ {
		t, ok := dayMonth(day, month, y)
		if !ok {
			continue
		}
		var gap time.Duration
		switch {
		case t.Before(p.from):
			gap = p.from.Sub(t)
		case t.After(p.to):
			gap = t.Sub(p.to)
		default:
			return t, true
		}
		if bestGap < 0 || gap < bestGap {
			best, bestGap = t, gap
		}
	}
	return best, bestGap >= 0
}

// recordDates turns the day and month opening each record into a full date.
// Records are seen in statement order.
type recordDates struct {
	year   int
	period *period
	last   time.Month
}

// start reports whether line opens a record, returning its date.
// Day values outside 1-31 or dates absent from the calendar do not count.
func (d *recordDates) start(line string) (time.Time, bool) {
	m := datePatternDayMonth.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month := monthOf(m[2])

	var date time.Time
	var ok bool
	if d.period != nil {
		date, ok = d.period.place(day, month)
	} else {
		date, ok = dayMonth(day, month, d.rolloverYear(month))
	}
	if !ok {
		return time.Time{}, false
	}
	d.year, d.last = date.Year(), month
	return date, true
}

// rolloverYear steps the year when adjacent records jump more than six
// months, which only happens across a December/January boundary.
func (d *recordDates) rolloverYear(month time.Month) int {
	switch {
	case d.last == 0:
		return d.year
	case month-d.last > 6:
		// newest first: January then December
		return d.year - 1
	case d.last-month > 6:
		return d.year + 1
	}
	return d.year
}

func (p *PaytmParser) resolveYear(header string, span *period) (int, string) {
	if span != nil {
		return span.to.Year(), YearFromHeader
	}
	if y := findYear(header); y != 0 {
		return y, YearFromHeader
	}
	if p.YearHint != 0 {
		return p.YearHint, YearFromHint
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return now().Year(), YearFromClock
}

func headerTotals(lines []string) *models.HeaderTotals {
	for _, line := range lines[:min(paytmHeaderLines, len(lines))] {
		m := paytmHeaderTotals.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		debit, err1 := parseRupees(m[1])
		credit, err2 := parseRupees(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return &models.HeaderTotals{Debit: debit, Credit: credit}
	}
	return nil
}
