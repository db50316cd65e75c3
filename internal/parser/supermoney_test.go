package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperMoneyParser_ReturnsSample(t *testing.T) {
	p := &SuperMoneyParser{}
	pages := []string{
		"SuperMoney Statement\n10/04/2024 UPI to Grocer INR 450.00\n11/04/2024 Refund ₹20",
		"Page 2\nSummary only",
	}

	info, err := p.Parse(pages)
	require.NoError(t, err)
	assert.True(t, info.Sample)
	require.Len(t, info.Transactions, 5)

	first := info.Transactions[0]
	assert.Equal(t, 5, first.Date.Day())
	assert.Equal(t, "Mobile Recharge", first.Description)
	assert.Equal(t, "-999", first.Amount.String())
	assert.Equal(t, "Bills", first.Category)

	last := info.Transactions[4]
	assert.Equal(t, "Salary Credit", last.Description)
	assert.Equal(t, "50000", last.Amount.String())
	assert.Equal(t, "Income", last.Category)

	// candidate lines are reported but never become rows
	assert.Len(t, info.DebugLines, 2)
	for _, dl := range info.DebugLines {
		assert.Equal(t, "ignored", dl.Result)
	}
}

func TestSuperMoneyParser_FreshCopy(t *testing.T) {
	p := &SuperMoneyParser{}
	a, err := p.Parse(nil)
	require.NoError(t, err)
	a.Transactions[0].Description = "changed"

	b, err := p.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "Mobile Recharge", b.Transactions[0].Description)
}
