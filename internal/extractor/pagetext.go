package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"
)

// PageTextBackend reads the plain text of each page with dslipak/pdf,
// falling back to whole-document text when no page yields any.
type PageTextBackend struct{}

func (PageTextBackend) Name() string {
	return "pagetext"
}

func (PageTextBackend) Extract(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	if hasText(pages) {
		return pages, nil
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("document text: %w", err)
	}
	all, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("read document text: %w", err)
	}
	return []string{strings.TrimSpace(string(all))}, nil
}
