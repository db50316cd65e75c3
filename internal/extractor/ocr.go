package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const defaultOCRDPI = 300

// OCRBackend renders pages to images with pdftoppm and reads them back
// with Tesseract. It handles scanned statements that have no text layer.
// Requires poppler-utils and tesseract-ocr on PATH.
type OCRBackend struct {
	DPI int
}

func (b *OCRBackend) Name() string {
	return "render"
}

// IsOCRAvailable reports whether pdftoppm and tesseract are installed.
func IsOCRAvailable() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	_, err := exec.LookPath("tesseract")
	return err == nil
}

func (b *OCRBackend) Extract(data []byte) ([]string, error) {
	if !IsOCRAvailable() {
		return nil, fmt.Errorf("pdftoppm or tesseract not installed")
	}

	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "statement.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm", "-r", strconv.Itoa(b.dpi()), "-png", pdfPath, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	imageFiles, err := pageImages(tmpDir)
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(imageFiles))
	for _, imgFile := range imageFiles {
		pages = append(pages, ocrImage(imgFile))
	}
	return pages, nil
}

func (b *OCRBackend) dpi() int {
	if b.DPI <= 0 {
		return defaultOCRDPI
	}
	return b.DPI
}

// pageImages lists rendered page images in page order. pdftoppm zero-pads
// page numbers, so lexical order is page order.
func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read temp dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}
	return files, nil
}

// ocrImage returns the recognized text of one page, or "" if Tesseract
// fails on it. PSM 4 assumes a single column of variable-size text.
func ocrImage(imgFile string) string {
	outBase := strings.TrimSuffix(imgFile, ".png") + "-ocr"
	cmd := exec.Command("tesseract", imgFile, outBase, "-l", "eng", "--psm", "4")
	if err := cmd.Run(); err != nil {
		return ""
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
