package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/upi-statement-analyzer/internal/charts"
	"github.com/insightdelivered/upi-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/upi-statement-analyzer/internal/logger"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
	"github.com/insightdelivered/upi-statement-analyzer/internal/statement"
	"github.com/insightdelivered/upi-statement-analyzer/internal/writer"
)

const topMerchants = 5

// Processor is the statement pipeline behind the API.
type Processor interface {
	Process(ctx context.Context, up statement.Upload, expected models.Platform) (*models.Result, error)
}

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success         bool                   `json:"success"`
	Error           string                 `json:"error,omitempty"`
	RequestID       string                 `json:"requestId,omitempty"`
	Status          models.Status          `json:"status,omitempty"`
	Platform        models.Platform        `json:"platform,omitempty"`
	Layout          models.Layout          `json:"layout,omitempty"`
	Transactions    []models.Transaction   `json:"transactions"`
	Count           int                    `json:"count"`
	Summary         *charts.Summary        `json:"summary,omitempty"`
	ChartsAvailable bool                   `json:"chartsAvailable"`
	Charts          *charts.Charts         `json:"charts,omitempty"`
	TopMerchants    []charts.MerchantTotal `json:"topMerchants,omitempty"`
	Weekdays        []charts.WeekdayStat   `json:"weekdays,omitempty"`
	SizeBuckets     []charts.SizeBucket    `json:"sizeBuckets,omitempty"`
	Reasons         []string               `json:"reasons,omitempty"`
	CSV             string                 `json:"csv,omitempty"`
	Version         string                 `json:"version,omitempty"`
	DebugLines      []models.DebugLine     `json:"debugLines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	svc     Processor
	log     zerolog.Logger
	version string
}

// NewHandler returns handlers backed by svc.
func NewHandler(svc Processor, log zerolog.Logger, version string) *Handler {
	return &Handler{svc: svc, log: log, version: version}
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.version,
	})
}

func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	reqID, _ := c.Locals(requestIDKey).(string)
	log := h.log.With().Str("request_id", reqID).Logger()

	expected, ok := models.ParsePlatform(c.FormValue("platform"))
	if !ok {
		return h.writeError(c, fiber.StatusBadRequest, reqID,
			fmt.Sprintf("Unknown platform: %q. Use phonepe, paytm, or supermoney.", c.FormValue("platform")))
	}
	includeHeader := c.FormValue("header") != "false"
	debug := c.FormValue("debug") == "true"

	fh, err := c.FormFile("file")
	if err != nil {
		return h.writeError(c, fiber.StatusBadRequest, reqID, "No file uploaded. Use form field 'file'.")
	}
	f, err := fh.Open()
	if err != nil {
		return h.writeError(c, fiber.StatusBadRequest, reqID, "Failed to read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return h.writeError(c, fiber.StatusBadRequest, reqID, "Failed to read uploaded file.")
	}

	log.Info().Str("file", fh.Filename).Int("bytes", len(data)).Str("expected", string(expected)).Msg("analyze request")

	ctx := logger.WithContext(c.UserContext(), log)
	res, err := h.svc.Process(ctx, statement.Upload{Filename: fh.Filename, Data: data}, expected)
	if err != nil {
		status := statusFor(err)
		log.Warn().Err(err).Int("status", status).Msg("analyze failed")
		return h.writeError(c, status, reqID, err.Error())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, res); err != nil {
		return h.writeError(c, fiber.StatusInternalServerError, reqID, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to JSON null, not []
	txns := res.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	resp := AnalyzeResponse{
		Success:      true,
		RequestID:    reqID,
		Status:       res.Status,
		Platform:     res.Platform,
		Layout:       res.Layout,
		Transactions: txns,
		Count:        len(txns),
		Reasons:      res.Reasons,
		CSV:          csvBuf.String(),
		Version:      h.version,
	}

	// placeholder tables get no analytics
	if res.HasData() || res.Status == models.StatusSample {
		summary := charts.Summarize(txns)
		resp.Summary = &summary
		if ch, ok := charts.Aggregate(txns); ok {
			resp.ChartsAvailable = true
			resp.Charts = &ch
		}
		resp.TopMerchants = charts.TopMerchants(txns, topMerchants)
		resp.Weekdays = charts.Weekdays(txns)
		resp.SizeBuckets = charts.SizeBuckets(txns)
	}

	if debug && res.Info != nil {
		resp.DebugLines = res.Info.DebugLines
	}

	return c.JSON(resp)
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, statement.ErrIncorrectStatementType), errors.Is(err, statement.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, extractor.ErrNoTextExtracted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *fiber.Ctx, status int, reqID, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success:      false,
		Error:        msg,
		RequestID:    reqID,
		Transactions: []models.Transaction{},
		Version:      h.version,
	})
}
