// Package charts derives chart-ready aggregates from the canonical table.
// Every function is a pure read over its input.
package charts

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// CategoryTotal is the absolute debit total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthTotal is the absolute debit total of one calendar month.
type MonthTotal struct {
	Label string          `json:"label"` // "January 2024"
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Charts holds the spending distribution and trend series.
type Charts struct {
	Categories []CategoryTotal `json:"categories"`
	Monthly    []MonthTotal    `json:"monthly"`
}

// Aggregate groups debit rows by category and by month. Categories are
// ordered by ascending total, months chronologically. The second result is
// false when there are no debit rows; that is a valid state, not an error.
func Aggregate(txns []models.Transaction) (Charts, bool) {
	byCategory := make(map[string]*CategoryTotal)
	byMonth := make(map[time.Time]*MonthTotal)

	for _, t := range txns {
		if !t.Amount.IsNegative() {
			continue
		}
		spent := t.Amount.Abs()

		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category, Total: decimal.Zero}
			byCategory[t.Category] = ct
		}
		ct.Total = ct.Total.Add(spent)
		ct.Count++

		key := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{
				Label: key.Format("January 2006"),
				Year:  key.Year(),
				Month: key.Month(),
				Total: decimal.Zero,
			}
			byMonth[key] = mt
		}
		mt.Total = mt.Total.Add(spent)
	}

	if len(byCategory) == 0 {
		return Charts{}, false
	}

	c := Charts{
		Categories: make([]CategoryTotal, 0, len(byCategory)),
		Monthly:    make([]MonthTotal, 0, len(byMonth)),
	}
	for _, ct := range byCategory {
		c.Categories = append(c.Categories, *ct)
	}
	sort.Slice(c.Categories, func(i, j int) bool {
		a, b := c.Categories[i], c.Categories[j]
		if cmp := a.Total.Cmp(b.Total); cmp != 0 {
			return cmp < 0
		}
		return a.Category < b.Category
	})

	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	for _, k := range keys {
		c.Monthly = append(c.Monthly, *byMonth[k])
	}

	return c, true
}

// Summary holds the headline totals of a table.
type Summary struct {
	TotalCredits decimal.Decimal `json:"totalCredits"`
	TotalDebits  decimal.Decimal `json:"totalDebits"` // absolute
	NetFlow      decimal.Decimal `json:"netFlow"`
	Count        int             `json:"count"`
}

// Summarize returns the sum of credits, the absolute sum of debits and
// their difference.
func Summarize(txns []models.Transaction) Summary {
	s := Summary{TotalCredits: decimal.Zero, TotalDebits: decimal.Zero, NetFlow: decimal.Zero, Count: len(txns)}
	for _, t := range txns {
		switch t.Amount.Sign() {
		case 1:
			s.TotalCredits = s.TotalCredits.Add(t.Amount)
		case -1:
			s.TotalDebits = s.TotalDebits.Add(t.Amount.Abs())
		}
	}
	s.NetFlow = s.TotalCredits.Sub(s.TotalDebits)
	return s
}
