// Package docextract extracts plain text from uploaded document formats.
package docextract

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for extensions other than .pdf and .docx.
var ErrUnsupportedType = errors.New("unsupported file type")

// ExtractText dispatches on the file extension and returns the extracted
// plain text. An empty string with nil error means the document had no
// extractable text.
func ExtractText(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(r)
	case ".docx":
		return extractDOCX(r)
	default:
		return "", ErrUnsupportedType
	}
}
