package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/upi-statement-analyzer/internal/api"
	"github.com/insightdelivered/upi-statement-analyzer/internal/classifier"
	"github.com/insightdelivered/upi-statement-analyzer/internal/config"
	"github.com/insightdelivered/upi-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/upi-statement-analyzer/internal/logger"
	"github.com/insightdelivered/upi-statement-analyzer/internal/metrics"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
	"github.com/insightdelivered/upi-statement-analyzer/internal/statement"
	"github.com/insightdelivered/upi-statement-analyzer/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	platformFlag := flag.String("platform", "", "Expected platform: phonepe, paytm, supermoney (routed from filename if omitted)")
	outputFlag := flag.String("output", "", "Output CSV file path (single input only; defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include statement metadata rows in CSV")
	workersFlag := flag.Int("workers", 4, "Number of files processed in parallel")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `UPI Statement Analyzer

Reads PhonePe, Paytm and SuperMoney statement PDFs (or canonical CSV
exports), classifies each transaction and writes a canonical CSV.

Usage:
  statement-analyzer [flags] <input.pdf|input.csv> [input2 ...]
  statement-analyzer -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Route by filename and convert
  statement-analyzer PhonePe_Statement_Jan.pdf

  # Reject files that do not look like Paytm statements
  statement-analyzer -platform=paytm paytm_2024.pdf

  # Convert many files, eight at a time
  statement-analyzer -workers=8 statements/*.pdf

  # Start the HTTP API (PORT, LOG_LEVEL, OCR_ENABLED, ... from env or .env)
  statement-analyzer -serve

Platform routing:
  Filenames containing "paytm", "supermoney" or "phonepe" select that
  platform's layout; anything else is read with the generic layout.
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-analyzer v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}
	log := logger.New(cfg.App.LogLevel)

	if *serveFlag {
		if err := serve(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	expected, ok := models.ParsePlatform(*platformFlag)
	if !ok {
		fatalf("Unknown platform %q. Supported: phonepe, paytm, supermoney\n", *platformFlag)
	}

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fatalf("-output can only be used with a single input file\n")
	}

	svc, _, err := newService(cfg, log)
	if err != nil {
		fatalf("%v\n", err)
	}

	opts := fileOptions{expected: expected, output: *outputFlag, header: *headerFlag}
	if err := processFiles(context.Background(), svc, inputFiles, opts, *workersFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newService wires the statement pipeline from configuration.
func newService(cfg *config.Config, log zerolog.Logger) (*statement.Service, *metrics.Metrics, error) {
	c := classifier.Default()
	if cfg.Classifier.RulesFile != "" {
		loaded, err := classifier.LoadFile(cfg.Classifier.RulesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("category rules: %w", err)
		}
		c = loaded
		log.Info().Str("file", cfg.Classifier.RulesFile).Msg("category rules loaded")
	}

	chain := extractor.Default(log, extractor.Options{OCR: cfg.OCR.Enabled, OCRDPI: cfg.OCR.DPI})
	if cfg.OCR.Enabled && !extractor.IsOCRAvailable() {
		log.Warn().Msg("OCR enabled but pdftoppm/tesseract not found; scanned statements will fail")
	}

	m := metrics.New()
	svc := statement.NewService(
		statement.WithExtractor(chain),
		statement.WithClassifier(c),
		statement.WithLogger(log),
		statement.WithMetrics(m),
	)
	return svc, m, nil
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	svc, m, err := newService(cfg, log)
	if err != nil {
		return err
	}

	app := api.NewApp(api.NewHandler(svc, log, version), api.ServerOptions{
		Name:      cfg.App.Name,
		BodyLimit: cfg.BodyLimit(),
		Metrics:   m,
		Log:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("version", version).Msg("listening")
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

type fileOptions struct {
	expected models.Platform
	output   string
	header   bool
}

// statementProcessor is the part of statement.Service the CLI needs.
type statementProcessor interface {
	Process(ctx context.Context, up statement.Upload, expected models.Platform) (*models.Result, error)
}

// processFiles converts inputs in parallel. Every file is attempted; the
// returned error joins the failures.
func processFiles(ctx context.Context, svc statementProcessor, inputs []string, opts fileOptions, workers int) error {
	if workers < 1 {
		workers = 1
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, input := range inputs {
		g.Go(func() error {
			report, err := processFile(ctx, svc, input, opts)
			mu.Lock()
			defer mu.Unlock()
			fmt.Print(report)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", input, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// processFile converts one input and returns the human-readable report.
func processFile(ctx context.Context, svc statementProcessor, inputPath string, opts fileOptions) (string, error) {
	var out strings.Builder
	fmt.Fprintf(&out, "Processing: %s\n", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return out.String(), fmt.Errorf("read input: %w", err)
	}

	res, err := svc.Process(ctx, statement.Upload{Filename: filepath.Base(inputPath), Data: data}, opts.expected)
	if err != nil {
		return out.String(), err
	}

	fmt.Fprintf(&out, "  Layout: %s\n", res.Layout)
	if res.Info != nil && res.Info.Backend != "" {
		fmt.Fprintf(&out, "  Extracted with: %s\n", res.Info.Backend)
	}
	fmt.Fprintf(&out, "  Status: %s, %d transaction(s)\n", res.Status, len(res.Transactions))

	switch res.Status {
	case models.StatusEmpty:
		fmt.Fprintln(&out, "  Warning: No transactions found. The PDF format may not match expected patterns.")
	case models.StatusSample:
		fmt.Fprintln(&out, "  Warning: SuperMoney statements are not read yet; the output holds sample data.")
	case models.StatusDegraded:
		fmt.Fprintln(&out, "  Warning: The CSV does not have the required date, amount and category columns.")
	}
	for _, r := range res.Reasons {
		fmt.Fprintf(&out, "    - %s\n", r)
	}

	outPath := opts.output
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
		if strings.EqualFold(filepath.Ext(inputPath), ".csv") {
			outPath = base + ".canonical.csv"
		}
	}

	w := &writer.CSVWriter{IncludeHeader: opts.header}
	if err := w.WriteToFile(outPath, res); err != nil {
		return out.String(), fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Fprintf(&out, "  Output: %s\n", outPath)
	return out.String(), nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
