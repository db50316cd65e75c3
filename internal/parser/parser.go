package parser

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/upi-statement-analyzer/internal/classifier"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// Parser defines the interface for statement layout parsers.
type Parser interface {
	// Parse takes the text of each PDF page and returns structured statement data.
	Parse(pages []string) (*models.StatementInfo, error)
	// Name returns the layout name.
	Name() string
}

// Options carries the dependencies a parser may need.
type Options struct {
	Classifier *classifier.Classifier
	Log        zerolog.Logger
	// YearHint is a year taken from outside the document text, such as the
	// upload filename. Zero means unknown.
	YearHint int
	// Now supplies the fallback year when the document does not state one.
	Now func() time.Time
}

// New returns the parser for the given layout.
func New(layout models.Layout, opts Options) (Parser, error) {
	switch layout {
	case models.LayoutGeneric:
		c := opts.Classifier
		if c == nil {
			c = classifier.Default()
		}
		return &GenericParser{classifier: c, log: opts.Log}, nil
	case models.LayoutPaytm:
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		return &PaytmParser{YearHint: opts.YearHint, Now: now, log: opts.Log}, nil
	case models.LayoutSuperMoney:
		return &SuperMoneyParser{log: opts.Log}, nil
	default:
		return nil, fmt.Errorf("unsupported layout: %q", layout)
	}
}

// LayoutFor maps a platform onto the text grammar that reads its statements.
func LayoutFor(p models.Platform) models.Layout {
	switch p {
	case models.PlatformPaytm:
		return models.LayoutPaytm
	case models.PlatformSuperMoney:
		return models.LayoutSuperMoney
	default:
		return models.LayoutGeneric
	}
}
