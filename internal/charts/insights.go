package charts

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// MerchantTotal is the absolute debit total paid to one description.
type MerchantTotal struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

// TopMerchants returns the n descriptions with the largest debit totals,
// largest first. n <= 0 returns all of them.
func TopMerchants(txns []models.Transaction, n int) []MerchantTotal {
	totals := make(map[string]*MerchantTotal)
	for _, t := range txns {
		if !t.Amount.IsNegative() {
			continue
		}
		mt, ok := totals[t.Description]
		if !ok {
			mt = &MerchantTotal{Description: t.Description, Total: decimal.Zero}
			totals[t.Description] = mt
		}
		mt.Total = mt.Total.Add(t.Amount.Abs())
		mt.Count++
	}

	out := make([]MerchantTotal, 0, len(totals))
	for _, mt := range totals {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].Description < out[j].Description
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WeekdayStat is the transaction count and mean signed amount of a weekday.
type WeekdayStat struct {
	Weekday time.Weekday    `json:"weekday"`
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Mean    decimal.Decimal `json:"mean"`
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Weekdays groups transactions by day of week, Monday first. Days with no
// transactions are omitted.
func Weekdays(txns []models.Transaction) []WeekdayStat {
	counts := make(map[time.Weekday]int)
	sums := make(map[time.Weekday]decimal.Decimal)
	for _, t := range txns {
		d := t.Date.Weekday()
		counts[d]++
		sums[d] = sums[d].Add(t.Amount)
	}

	var out []WeekdayStat
	for _, d := range weekOrder {
		c := counts[d]
		if c == 0 {
			continue
		}
		out = append(out, WeekdayStat{
			Weekday: d,
			Name:    d.String(),
			Count:   c,
			Mean:    sums[d].Div(decimal.NewFromInt(int64(c))).Round(2),
		})
	}
	return out
}

// SizeBucket counts transactions whose absolute amount falls in a range.
type SizeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

var bucketEdges = []struct {
	label string
	upper decimal.Decimal // inclusive
}{
	{"0-1000", decimal.NewFromInt(1000)},
	{"1001-5000", decimal.NewFromInt(5000)},
	{"5001-10000", decimal.NewFromInt(10000)},
}

const overflowBucket = "10000+"

// SizeBuckets counts transactions by absolute amount. All four buckets are
// always returned, smallest first.
func SizeBuckets(txns []models.Transaction) []SizeBucket {
	out := make([]SizeBucket, 0, len(bucketEdges)+1)
	for _, e := range bucketEdges {
		out = append(out, SizeBucket{Label: e.label})
	}
	out = append(out, SizeBucket{Label: overflowBucket})

	for _, t := range txns {
		abs := t.Amount.Abs()
		i := len(bucketEdges)
		for j, e := range bucketEdges {
			if abs.LessThanOrEqual(e.upper) {
				i = j
				break
			}
		}
		out[i].Count++
	}
	return out
}
