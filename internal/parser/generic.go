package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/classifier"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// GenericParser handles statements that print one transaction per line,
// led by a "Mon DD, YYYY" date. PhonePe exports follow this layout.
//
// Example line: "Jan 05, 2024 Paid to Swiggy DEBIT ₹250.00"
type GenericParser struct {
	classifier *classifier.Classifier
	log        zerolog.Logger
}

const unknownDescription = "Unknown Transaction"

var (
	errZeroAmount = errors.New("zero amount")
	errNoAmount   = errors.New("no amount on line")
)

func (p *GenericParser) Name() string {
	return string(models.LayoutGeneric)
}

func (p *GenericParser) Parse(pages []string) (*models.StatementInfo, error) {
	info := &models.StatementInfo{Layout: models.LayoutGeneric}
	var reasons []string

	for i, page := range pages {
		pageNum := i + 1
		lines := splitLines(page)
		if len(lines) == 0 {
			reasons = append(reasons, fmt.Sprintf("Page %d: No text could be extracted", pageNum))
			continue
		}

		p.log.Debug().Int("page", pageNum).Int("lines", len(lines)).Msg("processing page")

		for j, line := range lines {
			dl := models.DebugLine{Page: pageNum, LineNum: j + 1, Text: line}

			switch {
			case strings.Contains(line, "Transaction Statement for"):
				dl.Result = "header"
			case !datePatternMonthFirst.MatchString(line):
				dl.Result = "skipped"
				dl.Reason = "no leading date"
			default:
				dl.HasDate = true
				txn, err := p.parseLine(line)
				switch {
				case err == nil:
					dl.Result = "parsed"
					info.Transactions = append(info.Transactions, txn)
				case errors.Is(err, errZeroAmount):
					dl.Result = "skipped"
					dl.Reason = err.Error()
				default:
					dl.Result = "error"
					dl.Reason = err.Error()
					reasons = append(reasons, fmt.Sprintf("Line processing error on page %d: %v", pageNum, err))
					p.log.Debug().Int("page", pageNum).Err(err).Msg("line skipped")
				}
			}

			info.DebugLines = append(info.DebugLines, dl)
		}
	}

	if len(info.Transactions) == 0 {
		return nil, &NoTransactionsError{Reasons: reasons}
	}
	return info, nil
}

// parseLine reads one dated line into a transaction.
func (p *GenericParser) parseLine(line string) (models.Transaction, error) {
	parts := strings.Fields(line)

	date, err := time.Parse("Jan 02, 2006", strings.Join(parts[:3], " "))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date: %w", err)
	}

	amountIdx := -1
	for k := len(parts) - 1; k >= 3; k-- {
		if strings.Contains(parts[k], "₹") || hasDigit(parts[k]) {
			amountIdx = k
			break
		}
	}
	if amountIdx < 0 {
		return models.Transaction{}, errNoAmount
	}

	amount, err := decimal.NewFromString(cleanAmount(parts[amountIdx]))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q", parts[amountIdx])
	}
	if amount.IsZero() {
		return models.Transaction{}, errZeroAmount
	}

	txnType := models.TypeUnknown
	switch {
	case strings.Contains(line, "CREDIT"):
		txnType = models.TypeCredit
		amount = amount.Abs()
	case strings.Contains(line, "DEBIT"):
		txnType = models.TypeDebit
		amount = amount.Abs().Neg()
	}

	// everything between the date and the amount, type marker included
	description := unknownDescription
	if len(parts) > 4 && amountIdx > 3 {
		description = strings.Join(parts[3:amountIdx], " ")
	}

	return models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: description,
		Category:    p.classifier.Classify(description),
		Type:        txnType,
	}, nil
}
