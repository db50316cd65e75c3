// Package statement routes uploaded statements through extraction,
// layout parsing and normalization, and maps soft failures onto results.
package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/upi-statement-analyzer/internal/classifier"
	"github.com/insightdelivered/upi-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/upi-statement-analyzer/internal/logger"
	"github.com/insightdelivered/upi-statement-analyzer/internal/metrics"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
	"github.com/insightdelivered/upi-statement-analyzer/internal/normalizer"
	"github.com/insightdelivered/upi-statement-analyzer/internal/parser"
)

// TextExtractor turns PDF bytes into page text.
type TextExtractor interface {
	Extract(data []byte) (*extractor.Document, error)
}

// Upload is one file handed to the service.
type Upload struct {
	Filename string
	Data     []byte
}

// Service processes uploads. It holds only immutable dependencies and is
// safe for concurrent use.
type Service struct {
	extractor  TextExtractor
	classifier *classifier.Classifier
	log        zerolog.Logger
	now        func() time.Time
	metrics    *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithExtractor(e TextExtractor) Option {
	return func(s *Service) { s.extractor = e }
}

func WithClassifier(c *classifier.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock sets the time source used for sentinel rows and the Paytm
// fallback year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds a service. Without options it uses the full default
// extraction chain (layout, pagetext, then render/OCR), the built-in rules
// and a disabled logger.
func NewService(opts ...Option) *Service {
	s := &Service{
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = classifier.Default()
	}
	if s.extractor == nil {
		s.extractor = extractor.Default(s.log, extractor.Options{OCR: true})
	}
	return s
}

// Process reads one upload into a canonical table.
//
// Routing is decided from the filename. When expected is set and the
// filename names a different platform, Process returns an
// *IncorrectStatementTypeError without reading the file. Empty statements
// and CSV schema failures are reported through the result status rather
// than as errors.
func (s *Service) Process(ctx context.Context, up Upload, expected models.Platform) (*models.Result, error) {
	route, err := ResolvePlatform(up.Filename)
	if err != nil {
		return nil, err
	}
	if err := checkExpected(up.Filename, route, expected); err != nil {
		return nil, err
	}
	if route.Platform == models.PlatformAny {
		route.Platform = expected
	}

	log := s.log.With().
		Str("file", up.Filename).
		Str("platform", string(route.Platform)).
		Str("format", string(route.Format)).
		Logger()
	ctx = logger.WithContext(ctx, log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var res *models.Result
	switch route.Format {
	case FormatCSV:
		res, err = s.processCSV(ctx, up, route)
	default:
		res, err = s.processPDF(ctx, up, route)
	}
	if err != nil {
		log.Warn().Err(err).Msg("statement processing failed")
		return nil, err
	}

	s.metrics.ObserveStatement(string(route.Platform), string(res.Status), len(res.Transactions), time.Since(start))
	log.Info().
		Str("status", string(res.Status)).
		Int("transactions", len(res.Transactions)).
		Msg("statement processed")

	return res, nil
}

func (s *Service) processPDF(ctx context.Context, up Upload, route Route) (*models.Result, error) {
	log := logger.FromContext(ctx)

	doc, err := s.extractor.Extract(up.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", up.Filename, err)
	}
	s.metrics.ObserveBackend(doc.Backend)
	log.Debug().Str("backend", doc.Backend).Int("pages", len(doc.Pages)).Msg("text extracted")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layout := parser.LayoutFor(route.Platform)
	p, err := parser.New(layout, parser.Options{
		Classifier: s.classifier,
		Log:        log,
		YearHint:   parser.YearFromName(up.Filename),
		Now:        s.now,
	})
	if err != nil {
		return nil, err
	}

	res := &models.Result{Platform: route.Platform, Layout: layout}

	info, err := p.Parse(doc.Pages)
	var nte *parser.NoTransactionsError
	if errors.As(err, &nte) {
		res.Status = models.StatusEmpty
		res.Reasons = nte.Reasons
		res.Transactions = []models.Transaction{}
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", up.Filename, err)
	}

	info.Platform = route.Platform
	info.Backend = doc.Backend
	res.Info = info

	res.Transactions = normalizer.Normalize(info.Transactions)
	switch {
	case info.Sample:
		res.Status = models.StatusSample
		res.Reasons = []string{"SuperMoney statements are not read yet; showing sample data"}
	case len(res.Transactions) == 0:
		res.Status = models.StatusEmpty
		res.Reasons = []string{"no transactions within the sanity limit"}
	default:
		res.Status = models.StatusOK
	}
	return res, nil
}

func (s *Service) processCSV(ctx context.Context, up Upload, route Route) (*models.Result, error) {
	res := &models.Result{Platform: route.Platform, Layout: models.LayoutCSV}

	txns, err := normalizer.ReadCSV(ctx, bytes.NewReader(up.Data))
	var se *normalizer.SchemaError
	if errors.As(err, &se) {
		res.Status = models.StatusDegraded
		res.Reasons = []string{"missing required columns: " + strings.Join(se.Missing, ", ")}
		res.Transactions = []models.Transaction{s.sentinel()}
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", up.Filename, err)
	}

	res.Transactions = normalizer.Normalize(txns)
	if len(res.Transactions) == 0 {
		res.Status = models.StatusEmpty
		res.Reasons = []string{"no valid rows"}
		return res, nil
	}
	res.Status = models.StatusOK
	return res, nil
}

// sentinel is the single placeholder row of a degraded table.
func (s *Service) sentinel() models.Transaction {
	return models.Transaction{
		Date:     s.now(),
		Amount:   decimal.Zero,
		Category: models.CategoryOthers,
		Type:     models.TypeUnknown,
	}
}
