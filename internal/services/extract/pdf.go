// Package extract pulls plain text out of uploaded PDFs.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Logger defines the logging interface used by the extractor
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Extractor turns PDF bytes into page text. It never fails: unreadable
// input yields "" and a warning.
type Extractor struct {
	logger Logger
}

func NewExtractor(logger Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractFile reads the PDF at path and returns its text.
func (e *Extractor) ExtractFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("pdf read failed", "path", path, "error", err)
		return ""
	}
	return e.ExtractBytes(b)
}

// ExtractBytes returns the text of every non-blank page joined by "\n", trimmed.
func (e *Extractor) ExtractBytes(content []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf parser panicked", "panic", fmt.Sprint(r))
			text = ""
		}
	}()

	pages, err := e.readPages(content)
	if err != nil {
		e.logger.Warn("pdf extraction failed", "error", err, "size", len(content))
		return ""
	}
	return joinPages(pages)
}

// readPages returns the raw text of each page. A page that fails to decode
// is skipped with a warning; only an unreadable document is an error.
func (e *Extractor) readPages(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// joinPages trims each page, drops the empty ones and joins the rest with a
// single newline. The parser starts every text object with "\n".
func joinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
