package writer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
	"github.com/insightdelivered/upi-statement-analyzer/internal/normalizer"
)

func sampleResult() *models.Result {
	return &models.Result{
		Status:   models.StatusOK,
		Platform: models.PlatformPaytm,
		Layout:   models.LayoutPaytm,
		Info: &models.StatementInfo{
			Backend:    "layout",
			Year:       2024,
			YearSource: "header",
			HeaderTotals: &models.HeaderTotals{
				Debit:  decimal.RequireFromString("250"),
				Credit: decimal.RequireFromString("5000"),
			},
		},
		Transactions: []models.Transaction{
			{
				Date:        time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.RequireFromString("5000"),
				Description: "12 Jan Received from Rahul + Rs.5,000.00",
				Category:    "Credit",
				Type:        models.TypeCredit,
			},
			{
				Date:        time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.RequireFromString("-250.5"),
				Description: "Paid to Zomato, Koramangala",
				Category:    "Debit",
				Type:        models.TypeDebit,
			},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "# Platform,Paytm") {
		t.Error("expected platform metadata")
	}
	if !strings.Contains(output, "# Year,2024 (header)") {
		t.Error("expected year metadata")
	}
	if !strings.Contains(output, "date,amount,description,category,type") {
		t.Error("expected column headers")
	}
	if !strings.Contains(output, "2024-01-05,-250.50,\"Paid to Zomato, Koramangala\",Debit,DEBIT") {
		t.Errorf("expected quoted debit row, got:\n%s", output)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 6 metadata lines + 1 header + 2 transactions
	if len(lines) != 9 {
		t.Errorf("expected 9 lines, got %d", len(lines))
	}
}

func TestCSVWriter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "#") {
		t.Error("expected no metadata rows")
	}
	if !strings.HasPrefix(output, "date,amount,description,category,type\n") {
		t.Errorf("expected header first, got %q", output)
	}
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	res := sampleResult()
	if err := w.Write(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txns, err := normalizer.ReadCSV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(txns) != len(res.Transactions) {
		t.Fatalf("transactions: got %d, want %d", len(txns), len(res.Transactions))
	}
	for i := range txns {
		want := res.Transactions[i]
		if !txns[i].Date.Equal(want.Date) || !txns[i].Amount.Equal(want.Amount) ||
			txns[i].Description != want.Description || txns[i].Category != want.Category || txns[i].Type != want.Type {
			t.Errorf("txn[%d]: got %+v, want %+v", i, txns[i], want)
		}
	}
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{}
	if err := w.WriteToFile(path, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "2024-01-12,5000.00") {
		t.Errorf("unexpected file contents: %s", data)
	}
}

func TestCSVWriter_WriteToFileBadPath(t *testing.T) {
	w := &CSVWriter{}
	if err := w.WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), sampleResult()); err == nil {
		t.Error("expected error for missing directory")
	}
}
