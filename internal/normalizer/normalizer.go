// Package normalizer projects parsed and uploaded transactions onto the
// canonical table and enforces its sanity rules.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// SanityLimit is the exclusive ceiling on |amount|. Larger values come from
// misread account numbers or reference IDs, not real transactions.
var SanityLimit = decimal.New(1, 9)

var spaceRun = regexp.MustCompile(`\s+`)

// Normalize returns a new slice holding the canonical form of txns. Rows
// at or above SanityLimit are dropped. The input is not modified.
func Normalize(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Amount.Abs().GreaterThanOrEqual(SanityLimit) {
			continue
		}

		t.Description = strings.TrimSpace(spaceRun.ReplaceAllString(t.Description, " "))
		t.Category = strings.TrimSpace(t.Category)
		if t.Category == "" {
			t.Category = models.CategoryOthers
		}
		t.Type = reconcileType(t.Type, t.Amount)

		out = append(out, t)
	}
	return out
}

// reconcileType keeps an explicit direction label when it agrees with the
// sign and derives one otherwise.
func reconcileType(t models.TxnType, amount decimal.Decimal) models.TxnType {
	switch t {
	case models.TypeCredit:
		if !amount.IsNegative() {
			return t
		}
	case models.TypeDebit:
		if !amount.IsPositive() {
			return t
		}
	}
	return models.TypeForAmount(amount)
}
