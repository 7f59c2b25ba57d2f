// Package encoding converts UTF-8 output to the charset a consumer asked for.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnsupportedCharset = errors.New("unsupported charset")

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

const (
	UTF8        = "utf-8"
	UTF8BOM     = "utf-8-bom"
	UTF16LE     = "utf-16le"
	Windows1252 = "windows-1252"
	ISO88599    = "iso-8859-9"
)

// Charsets lists the accepted charset names.
var Charsets = []string{UTF8, UTF8BOM, UTF16LE, Windows1252, ISO88599}

// Normalize maps aliases to a canonical charset name. The empty string is UTF-8.
func Normalize(charset string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", UTF8:
		return UTF8, nil
	case "utf8-bom", UTF8BOM:
		return UTF8BOM, nil
	case "utf16le", "utf-16", UTF16LE:
		return UTF16LE, nil
	case "latin1", "iso-8859-1", "cp1252", Windows1252:
		return Windows1252, nil
	case "latin5", ISO88599:
		return ISO88599, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedCharset, charset)
}

// NewWriter returns a writer that encodes UTF-8 input to charset. Characters
// the target charset cannot represent are replaced. Close flushes any
// buffered output and does not close w.
//
// Supported charsets:
//  1. utf-8, written as-is
//  2. utf-8-bom, prefixed with the UTF-8 BOM
//  3. utf-16le, prefixed with its BOM
//  4. windows-1252 and iso-8859-9 for spreadsheet tools that assume a code page
func NewWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	name, err := Normalize(charset)
	if err != nil {
		return nil, err
	}

	switch name {
	case UTF8BOM:
		if _, err := w.Write(bomUTF8); err != nil {
			return nil, fmt.Errorf("writing bom: %w", err)
		}

		return nopCloser{w}, nil
	case UTF16LE:
		return transform.NewWriter(w, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()), nil
	case Windows1252:
		return transform.NewWriter(w, xencoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())), nil
	case ISO88599:
		return transform.NewWriter(w, xencoding.ReplaceUnsupported(charmap.ISO8859_9.NewEncoder())), nil
	}

	return nopCloser{w}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
