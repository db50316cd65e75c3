package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// DateLayout is the date format written to CSV.
const DateLayout = "2006-01-02"

// Header is the canonical column order.
var Header = []string{"date", "amount", "description", "category", "type"}

// CSVWriter writes the canonical table to CSV format.
type CSVWriter struct {
	// IncludeHeader adds "#"-prefixed metadata rows before the table.
	IncludeHeader bool
}

// WriteToFile writes the table to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the table in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *models.Result) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		for _, row := range metadata(res) {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range res.Transactions {
		row := []string{
			txn.Date.Format(DateLayout),
			txn.Amount.StringFixed(2),
			txn.Description,
			txn.Category,
			string(txn.Type),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func metadata(res *models.Result) [][]string {
	rows := [][]string{{"# Status", string(res.Status)}}
	if res.Platform != models.PlatformAny {
		rows = append(rows, []string{"# Platform", res.Platform.DisplayName()})
	}
	if res.Layout != "" {
		rows = append(rows, []string{"# Layout", string(res.Layout)})
	}
	if info := res.Info; info != nil {
		if info.Backend != "" {
			rows = append(rows, []string{"# Extraction", info.Backend})
		}
		if info.Year != 0 {
			rows = append(rows, []string{"# Year", fmt.Sprintf("%d (%s)", info.Year, info.YearSource)})
		}
		if t := info.HeaderTotals; t != nil {
			rows = append(rows, []string{"# Header Totals", "debit " + t.Debit.StringFixed(2), "credit " + t.Credit.StringFixed(2)})
		}
	}
	if len(res.Reasons) > 0 {
		rows = append(rows, []string{"# Notes", strings.Join(res.Reasons, "; ")})
	}
	return rows
}
