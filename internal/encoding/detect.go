// Package encoding normalizes uploaded CSV exports to UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffLen bounds how much of the input chardet looks at.
const sniffLen = 4096

// ToUTF8 returns data decoded to UTF-8. The input slice is not modified.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func ToUTF8(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data)
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		return decode(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), data)
	}

	if utf8.Valid(data) {
		return data, nil
	}

	return decode(detect(data), data)
}

// NewUTF8Reader reads r fully and returns a reader over its UTF-8 form.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	out, err := ToUTF8(data)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(out), nil
}

func detect(data []byte) encoding.Encoding {
	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-9":
			return charmap.ISO8859_9
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252
		}
	}

	return charmap.Windows1252
}

func decode(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
