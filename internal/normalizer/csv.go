package normalizer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/encoding"
	"github.com/insightdelivered/upi-statement-analyzer/internal/logger"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

const (
	ColDate        = "date"
	ColAmount      = "amount"
	ColCategory    = "category"
	ColDescription = "description"
	ColType        = "type"
)

// RequiredColumns must all be present in an uploaded table.
var RequiredColumns = []string{ColDate, ColAmount, ColCategory}

// ErrSchema is matched by every SchemaError.
var ErrSchema = errors.New("table does not match the canonical schema")

// SchemaError lists the required columns an uploaded table lacks.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: missing columns %s", ErrSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"Jan 02, 2006",
	"02 Jan 2006",
}

// ReadCSV reads a canonical table. Header names are matched
// case-insensitively in any order; unknown columns are ignored. Lines
// starting with '#' are metadata and skipped. Rows whose date or amount
// cannot be read are skipped and logged.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(utf8Reader)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	txns := []models.Transaction{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		date, err := parseDate(field(row, ColDate))
		if err != nil {
			log.Debug().Int("line", line).Err(err).Msg("csv row skipped")
			continue
		}
		amount, err := parseAmount(field(row, ColAmount))
		if err != nil {
			log.Debug().Int("line", line).Err(err).Msg("csv row skipped")
			continue
		}

		txns = append(txns, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: field(row, ColDescription),
			Category:    field(row, ColCategory),
			Type:        models.TxnType(strings.ToUpper(field(row, ColType))),
		})
	}

	return txns, nil
}

// parseDate accepts the date layouts seen in exported tables and truncates
// to the calendar day.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
