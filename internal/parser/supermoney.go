package parser

import (
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// SuperMoneyParser handles SuperMoney statements.
//
// The SuperMoney record grammar is not known yet. The parser returns a
// fixed illustrative dataset flagged as a sample, and only counts lines
// that look like records ("DD/MM/YYYY ... ₹1,234.00") for diagnostics.
type SuperMoneyParser struct {
	log zerolog.Logger
}

var superMoneyAmount = regexp.MustCompile(`(?:INR|Rs\.|₹)\s*([\d,]+\.?\d*)`)

type sampleRow struct {
	date        string
	description string
	amount      int64
	category    string
}

var superMoneySample = []sampleRow{
	{"01/03/2024", "Salary Credit", 50000, "Income"},
	{"02/03/2024", "Rent Payment", -15000, "Housing"},
	{"03/03/2024", "Grocery Shopping", -2500, "Groceries"},
	{"04/03/2024", "Restaurant Bill", -1200, "Food"},
	{"05/03/2024", "Mobile Recharge", -999, "Bills"},
}

func (p *SuperMoneyParser) Name() string {
	return string(models.LayoutSuperMoney)
}

func (p *SuperMoneyParser) Parse(pages []string) (*models.StatementInfo, error) {
	info := &models.StatementInfo{Layout: models.LayoutSuperMoney, Sample: true}

	candidates := 0
	for i, page := range pages {
		for j, line := range splitLines(page) {
			if !datePatternSlash.MatchString(line) || !superMoneyAmount.MatchString(line) {
				continue
			}
			candidates++
			info.DebugLines = append(info.DebugLines, models.DebugLine{
				Page:    i + 1,
				LineNum: j + 1,
				Text:    line,
				HasDate: true,
				Result:  "ignored",
				Reason:  "sample dataset returned",
			})
		}
	}

	info.Transactions = sampleTransactions()

	p.log.Debug().Int("candidate_lines", candidates).Msg("supermoney sample dataset returned")
	return info, nil
}

// sampleTransactions returns a fresh copy of the sample, newest first.
func sampleTransactions() []models.Transaction {
	txns := make([]models.Transaction, 0, len(superMoneySample))
	for _, row := range superMoneySample {
		date, _ := time.Parse("02/01/2006", row.date)
		amount := decimal.NewFromInt(row.amount)
		txns = append(txns, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: row.description,
			Category:    row.category,
			Type:        models.TypeForAmount(amount),
		})
	}
	sort.SliceStable(txns, func(a, b int) bool {
		return txns[a].Date.After(txns[b].Date)
	})
	return txns
}
