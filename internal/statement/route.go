package statement

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

var (
	// ErrIncorrectStatementType is matched by every IncorrectStatementTypeError.
	ErrIncorrectStatementType = errors.New("incorrect statement type")
	// ErrUnsupportedFormat is returned for uploads that are neither PDF nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// IncorrectStatementTypeError reports an upload whose filename names a
// different platform than the one the caller asked for.
type IncorrectStatementTypeError struct {
	Filename string
	Detected models.Platform
	Expected models.Platform
}

func (e *IncorrectStatementTypeError) Error() string {
	return fmt.Sprintf("%v: %q looks like a %s statement, please upload a %s statement",
		ErrIncorrectStatementType, e.Filename, e.Detected.DisplayName(), e.Expected.DisplayName())
}

func (e *IncorrectStatementTypeError) Is(target error) bool {
	return target == ErrIncorrectStatementType
}

// Format is the container format of an upload.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// Route is where an upload goes, decided once from its filename.
type Route struct {
	Platform models.Platform
	Format   Format
}

// platformNames are checked in order; the first substring found wins.
var platformNames = []struct {
	needle   string
	platform models.Platform
}{
	{"paytm", models.PlatformPaytm},
	{"supermoney", models.PlatformSuperMoney},
	{"phonepe", models.PlatformPhonePe},
}

// ResolvePlatform routes an upload by a case-insensitive look at its
// filename. Files that name no platform get PlatformAny.
func ResolvePlatform(filename string) (Route, error) {
	name := strings.ToLower(filepath.Base(filename))

	var r Route
	switch filepath.Ext(name) {
	case ".pdf":
		r.Format = FormatPDF
	case ".csv":
		r.Format = FormatCSV
	default:
		return Route{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}

	for _, p := range platformNames {
		if strings.Contains(name, p.needle) {
			r.Platform = p.platform
			break
		}
	}
	return r, nil
}

// checkExpected rejects a route whose detected platform contradicts the
// caller's expectation. Unnamed files and unset expectations always pass.
func checkExpected(filename string, r Route, expected models.Platform) error {
	if expected == models.PlatformAny || r.Platform == models.PlatformAny || r.Platform == expected {
		return nil
	}
	return &IncorrectStatementTypeError{Filename: filename, Detected: r.Platform, Expected: expected}
}
