package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/upi-statement-analyzer/internal/classifier"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

func newGeneric() *GenericParser {
	return &GenericParser{classifier: classifier.Default()}
}

func TestGenericParser_Parse(t *testing.T) {
	pages := []string{
		`Transaction Statement for 98XXXXXX10
Date Transaction Details Type Amount
Jan 05, 2024 Paid to Swiggy DEBIT ₹250.00
10:30 am Transaction ID T2401051030
Jan 06, 2024 Received from Ramesh Kumar CREDIT ₹1,000
Jan 07, 2024 Paid to Uber India DEBIT ₹0.00
Jan 08, 2024 DEBIT ₹99
Jan 09, 2024 ₹75`,
	}

	info, err := newGeneric().Parse(pages)
	require.NoError(t, err)
	require.Len(t, info.Transactions, 4)

	txn := info.Transactions[0]
	assert.True(t, txn.Date.Equal(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-250", txn.Amount.String())
	assert.Equal(t, models.TypeDebit, txn.Type)
	assert.Equal(t, "Paid to Swiggy DEBIT", txn.Description)
	assert.Equal(t, "Food & Dining - Food Delivery", txn.Category)

	txn = info.Transactions[1]
	assert.Equal(t, "1000", txn.Amount.String())
	assert.Equal(t, models.TypeCredit, txn.Type)
	assert.Equal(t, "Received from Ramesh Kumar CREDIT", txn.Description)
	assert.Equal(t, "Income", txn.Category)

	txn = info.Transactions[2]
	assert.Equal(t, "-99", txn.Amount.String())
	assert.Equal(t, "DEBIT", txn.Description)
	assert.Equal(t, models.CategoryOthers, txn.Category)

	txn = info.Transactions[3]
	assert.Equal(t, "75", txn.Amount.String())
	assert.Equal(t, models.TypeUnknown, txn.Type)
	assert.Equal(t, unknownDescription, txn.Description)

	assert.Equal(t, models.LayoutGeneric, info.Layout)
	assert.Equal(t, "header", info.DebugLines[0].Result)
}

func TestGenericParser_ZeroAmountExcluded(t *testing.T) {
	info, err := newGeneric().Parse([]string{
		"Jan 07, 2024 Paid to Uber India DEBIT ₹0.00\nJan 08, 2024 Paid to Ola DEBIT ₹120",
	})
	require.NoError(t, err)
	require.Len(t, info.Transactions, 1)
	for _, txn := range info.Transactions {
		assert.False(t, txn.Amount.IsZero())
	}
}

func TestGenericParser_SoftErrors(t *testing.T) {
	pages := []string{
		"Jan 32, 2024 Paid to Zomato DEBIT ₹10\nJan 10, 2024 Paid to Zomato DEBIT ₹10",
		"   ",
	}

	info, err := newGeneric().Parse(pages)
	require.NoError(t, err)
	require.Len(t, info.Transactions, 1)

	var errLines int
	for _, dl := range info.DebugLines {
		if dl.Result == "error" {
			errLines++
			assert.Contains(t, dl.Reason, "invalid date")
		}
	}
	assert.Equal(t, 1, errLines)
}

func TestGenericParser_MissingAmount(t *testing.T) {
	info, err := newGeneric().Parse([]string{
		"Jan 10, 2024 Paid to Zomato DEBIT\nJan 11, 2024 Paid to Zomato DEBIT ₹10",
	})
	require.NoError(t, err)
	require.Len(t, info.Transactions, 1)
	assert.Equal(t, "error", info.DebugLines[0].Result)
	assert.Equal(t, errNoAmount.Error(), info.DebugLines[0].Reason)
}

func TestGenericParser_NoTransactions(t *testing.T) {
	pages := []string{"", "Statement summary\nJan 32, 2024 broken DEBIT ₹5"}

	_, err := newGeneric().Parse(pages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTransactionsFound))

	var nte *NoTransactionsError
	require.True(t, errors.As(err, &nte))
	require.Len(t, nte.Reasons, 2)
	assert.Equal(t, "Page 1: No text could be extracted", nte.Reasons[0])
	assert.True(t, strings.HasPrefix(nte.Reasons[1], "Line processing error on page 2: "))
}

func TestGenericParser_SignInvariant(t *testing.T) {
	info, err := newGeneric().Parse([]string{
		"Jan 05, 2024 Refund CREDIT -₹40\nJan 06, 2024 Paid DEBIT -₹60\nJan 07, 2024 Paid to Jio DEBIT ₹239",
	})
	require.NoError(t, err)
	for _, txn := range info.Transactions {
		switch txn.Type {
		case models.TypeCredit:
			assert.True(t, txn.Amount.IsPositive(), txn.Description)
		case models.TypeDebit:
			assert.True(t, txn.Amount.IsNegative(), txn.Description)
		}
	}
}

func TestGenericParser_Deterministic(t *testing.T) {
	pages := []string{"Jan 05, 2024 Paid to Swiggy DEBIT ₹250.00\nJan 06, 2024 Salary CREDIT ₹5000"}
	p := newGeneric()

	first, err := p.Parse(pages)
	require.NoError(t, err)
	second, err := p.Parse(pages)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
