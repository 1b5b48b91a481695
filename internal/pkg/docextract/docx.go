package docextract

import (
	"bytes"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// extractDOCX reads the entire content of r and joins the text of every
// paragraph in the document body, one paragraph per line.
func extractDOCX(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}

	doc, err := docx.Parse(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", err
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(p.String()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
