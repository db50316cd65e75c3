package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/insightdelivered/upi-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/upi-statement-analyzer/internal/metrics"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

var clock = func() time.Time {
	return time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC)
}

const phonepePage = `Transaction Statement for 98XXXXXX10
Jan 05, 2024 Paid to Swiggy DEBIT ₹250.00
Jan 06, 2024 Received from Ramesh Kumar CREDIT ₹1,000
Jan 07, 2024 Paid to Uber India DEBIT ₹0.00`

const paytmPage = `Paytm Statement
Date & Time Transaction Details
5 Jan Paid to Zomato
- Rs.250.00
12 Jan Received from Rahul
+ Rs.5,000.00`

// newService wires a service around a mock backend that returns pages.
func newService(t *testing.T, pages []string, calls int) *Service {
	t.Helper()
	ctrl := gomock.NewController(t)
	b := extractor.NewMockBackend(ctrl)
	b.EXPECT().Name().Return("mock").AnyTimes()
	b.EXPECT().Extract(gomock.Any()).Return(pages, nil).Times(calls)

	return NewService(
		WithExtractor(extractor.NewChain(zerolog.Nop(), b)),
		WithClock(clock),
		WithMetrics(metrics.New()),
	)
}

func TestProcess_GenericPDF(t *testing.T) {
	svc := newService(t, []string{phonepePage}, 1)

	res, err := svc.Process(context.Background(), Upload{Filename: "PhonePe_Statement.pdf", Data: []byte("%PDF")}, models.PlatformPhonePe)
	require.NoError(t, err)

	assert.Equal(t, models.StatusOK, res.Status)
	assert.True(t, res.HasData())
	assert.Equal(t, models.PlatformPhonePe, res.Platform)
	assert.Equal(t, models.LayoutGeneric, res.Layout)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "Food & Dining - Food Delivery", res.Transactions[0].Category)
	assert.Equal(t, "mock", res.Info.Backend)
}

func TestProcess_PaytmUsesFilenameYear(t *testing.T) {
	svc := newService(t, []string{paytmPage}, 1)

	res, err := svc.Process(context.Background(), Upload{Filename: "paytm_2023.pdf", Data: []byte("%PDF")}, models.PlatformAny)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 12, res.Transactions[0].Date.Day())
	assert.Equal(t, 2023, res.Transactions[0].Date.Year())
	assert.Equal(t, "Credit", res.Transactions[0].Category)
	assert.Equal(t, "filename", res.Info.YearSource)
}

func TestProcess_ExpectedPlatformRoutesUnnamedFile(t *testing.T) {
	svc := newService(t, []string{paytmPage}, 1)

	res, err := svc.Process(context.Background(), Upload{Filename: "statement.pdf", Data: []byte("%PDF")}, models.PlatformPaytm)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutPaytm, res.Layout)
	assert.Equal(t, 2025, res.Transactions[0].Date.Year())
}

func TestProcess_SuperMoneySample(t *testing.T) {
	svc := newService(t, []string{"SuperMoney statement"}, 1)

	res, err := svc.Process(context.Background(), Upload{Filename: "supermoney.pdf", Data: []byte("%PDF")}, models.PlatformSuperMoney)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSample, res.Status)
	assert.False(t, res.HasData())
	assert.Len(t, res.Transactions, 5)
	assert.NotEmpty(t, res.Reasons)
}

func TestProcess_RoutingRejectionSkipsExtraction(t *testing.T) {
	tests := []struct {
		filename string
		expected models.Platform
	}{
		{"paytm_statement.pdf", models.PlatformPhonePe},
		{"phonepe_statement.pdf", models.PlatformPaytm},
		{"supermoney_statement.pdf", models.PlatformPaytm},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			svc := newService(t, nil, 0)
			res, err := svc.Process(context.Background(), Upload{Filename: tt.filename, Data: []byte("%PDF")}, tt.expected)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrIncorrectStatementType)
		})
	}
}

func TestProcess_NoTransactions(t *testing.T) {
	svc := newService(t, []string{"", "Statement summary only"}, 1)

	res, err := svc.Process(context.Background(), Upload{Filename: "phonepe.pdf", Data: []byte("%PDF")}, models.PlatformAny)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmpty, res.Status)
	assert.Empty(t, res.Transactions)
	assert.Contains(t, res.Reasons, "Page 1: No text could be extracted")
}

func TestProcess_ExtractionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := extractor.NewMockBackend(ctrl)
	b.EXPECT().Name().Return("mock").AnyTimes()
	b.EXPECT().Extract(gomock.Any()).Return(nil, errors.New("encrypted"))

	svc := NewService(WithExtractor(extractor.NewChain(zerolog.Nop(), b)))
	_, err := svc.Process(context.Background(), Upload{Filename: "phonepe.pdf", Data: []byte("%PDF")}, models.PlatformAny)
	assert.ErrorIs(t, err, extractor.ErrNoTextExtracted)
}

func TestProcess_CSVRoundTrip(t *testing.T) {
	svc := newService(t, nil, 0)
	data := []byte("date,amount,category,extra\n2024-01-05,-250,Food & Dining,x\n2024-01-06,999999,Income,y\n2024-01-07,2000000000,Income,z\n")

	res, err := svc.Process(context.Background(), Upload{Filename: "export.csv", Data: data}, models.PlatformAny)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, res.Status)
	assert.Equal(t, models.LayoutCSV, res.Layout)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "-250", res.Transactions[0].Amount.String())
	assert.Equal(t, models.TypeDebit, res.Transactions[0].Type)
	assert.Equal(t, "999999", res.Transactions[1].Amount.String())
}

func TestProcess_CSVSchemaDegraded(t *testing.T) {
	svc := newService(t, nil, 0)

	res, err := svc.Process(context.Background(), Upload{Filename: "export.csv", Data: []byte("date,amount\n2024-01-05,10\n")}, models.PlatformAny)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDegraded, res.Status)
	require.Len(t, res.Transactions, 1)

	s := res.Transactions[0]
	assert.True(t, s.Amount.IsZero())
	assert.Equal(t, models.CategoryOthers, s.Category)
	assert.Equal(t, clock(), s.Date)
	assert.Contains(t, res.Reasons[0], "category")
}

func TestProcess_Idempotent(t *testing.T) {
	svc := newService(t, []string{phonepePage}, 2)
	up := Upload{Filename: "phonepe.pdf", Data: []byte("%PDF")}

	first, err := svc.Process(context.Background(), up, models.PlatformAny)
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), up, models.PlatformAny)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcess_SignInvariant(t *testing.T) {
	svc := newService(t, nil, 0)
	data := []byte("date,amount,category,type\n2024-01-05,-250,Food,CREDIT\n2024-01-06,100,Income,DEBIT\n2024-01-07,40,Income,CREDIT\n")

	res, err := svc.Process(context.Background(), Upload{Filename: "export.csv", Data: data}, models.PlatformAny)
	require.NoError(t, err)
	for _, txn := range res.Transactions {
		if txn.Type == models.TypeCredit {
			assert.False(t, txn.Amount.IsNegative())
		}
		if txn.Type == models.TypeDebit {
			assert.False(t, txn.Amount.IsPositive())
		}
	}
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	svc := newService(t, nil, 0)
	_, err := svc.Process(context.Background(), Upload{Filename: "statement.xlsx"}, models.PlatformAny)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcess_CancelledContext(t *testing.T) {
	svc := newService(t, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Process(ctx, Upload{Filename: "phonepe.pdf", Data: []byte("%PDF")}, models.PlatformAny)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewService_DefaultChain(t *testing.T) {
	svc := NewService()

	chain, ok := svc.extractor.(*extractor.Chain)
	require.True(t, ok)
	assert.Equal(t, []string{"layout", "pagetext", "render"}, chain.Backends())
}
