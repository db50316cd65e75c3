// Package extractor turns statement PDFs into plain text by trying an
// ordered list of extraction backends until one yields text.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoTextExtracted is returned when every backend failed or produced
// only whitespace.
var ErrNoTextExtracted = errors.New("no text could be extracted from the document")

//go:generate mockgen -source=extractor.go -destination=backend_mock.go -package=extractor

// Backend is one text extraction strategy. Extract returns the text of each
// page in order; pages without text may be returned as empty strings.
type Backend interface {
	Name() string
	Extract(data []byte) ([]string, error)
}

// Document is the text of a statement and the backend that produced it.
type Document struct {
	Pages   []string
	Backend string
}

// Text returns all pages joined by newlines.
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// Chain tries backends in order and keeps the first non-empty result.
type Chain struct {
	backends []Backend
	log      zerolog.Logger
}

// NewChain builds a chain over the given backends, tried in the order given.
func NewChain(log zerolog.Logger, backends ...Backend) *Chain {
	return &Chain{backends: backends, log: log}
}

// Options configures the default backend chain.
type Options struct {
	OCR    bool
	OCRDPI int
}

// Default returns the standard chain: layout-aware rows, plain page text,
// then OCR of rendered pages when enabled.
func Default(log zerolog.Logger, opts Options) *Chain {
	backends := []Backend{LayoutBackend{}, PageTextBackend{}}
	if opts.OCR {
		backends = append(backends, &OCRBackend{DPI: opts.OCRDPI})
	}
	return NewChain(log, backends...)
}

// Backends returns the names of the configured backends in order.
func (c *Chain) Backends() []string {
	names := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		names = append(names, b.Name())
	}
	return names
}

// Extract runs the chain over data. Each backend receives its own copy of
// the bytes, so a backend can never disturb the input seen by the next one.
func (c *Chain) Extract(data []byte) (*Document, error) {
	var failures []string

	for _, b := range c.backends {
		pages, err := runBackend(b, bytes.Clone(data))
		if err != nil {
			c.log.Debug().Str("backend", b.Name()).Err(err).Msg("extraction backend failed")
			failures = append(failures, fmt.Sprintf("%s: %v", b.Name(), err))
			continue
		}

		if !hasText(pages) {
			c.log.Debug().Str("backend", b.Name()).Msg("extraction backend returned no text")
			failures = append(failures, b.Name()+": no text")
			continue
		}

		c.log.Debug().Str("backend", b.Name()).Int("pages", len(pages)).Msg("text extracted")
		return &Document{Pages: pages, Backend: b.Name()}, nil
	}

	if len(failures) == 0 {
		return nil, ErrNoTextExtracted
	}
	return nil, fmt.Errorf("%w (%s)", ErrNoTextExtracted, strings.Join(failures, "; "))
}

// runBackend converts panics from PDF libraries into errors.
func runBackend(b Backend, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend crashed: %v", r)
		}
	}()
	return b.Extract(data)
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
