package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata/statement.pdf has two pages: three text rows on the first, one
// on the second.
func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "statement.pdf"))
	require.NoError(t, err)
	return data
}

func nonEmptyLines(page string) []string {
	var lines []string
	for _, l := range strings.Split(page, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestLayoutBackend_RealPDF(t *testing.T) {
	pages, err := LayoutBackend{}.Extract(readFixture(t))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// one row per text line
	assert.Len(t, nonEmptyLines(pages[0]), 3)
	assert.Contains(t, pages[0], "Swiggy")
	assert.Contains(t, pages[0], "Ramesh")
	assert.Contains(t, pages[1], "Uber")
	assert.NotContains(t, pages[1], "Swiggy")
}

func TestPageTextBackend_RealPDF(t *testing.T) {
	pages, err := PageTextBackend{}.Extract(readFixture(t))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Contains(t, pages[0], "Swiggy")
	assert.Contains(t, pages[0], "1000.00")
	assert.Contains(t, pages[1], "Uber")
}

func TestDefault_RealPDF(t *testing.T) {
	data := readFixture(t)
	want := append([]byte(nil), data...)

	doc, err := Default(zerolog.Nop(), Options{}).Extract(data)
	require.NoError(t, err)
	assert.Equal(t, "layout", doc.Backend)
	assert.Len(t, doc.Pages, 2)
	assert.Contains(t, doc.Text(), "Uber")
	assert.Equal(t, want, data)
}
