package inspect

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mhcho/manualhub/internal/core/domain"
)

// PDFInspector rejects uploads that are not parseable PDF files before any
// bytes leave the process. The extension and content type are checked first
// so obvious mismatches fail without touching the parser.
type PDFInspector struct{}

func NewPDFInspector() *PDFInspector {
	return &PDFInspector{}
}

func (PDFInspector) Inspect(filename, contentType string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return domain.WrapError(domain.ErrInvalidFile, "inspect upload",
			fmt.Errorf("extension %q is not .pdf", filepath.Ext(filename)))
	}
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "pdf") {
		return domain.WrapError(domain.ErrInvalidFile, "inspect upload",
			fmt.Errorf("content type %q is not a pdf type", contentType))
	}
	if len(data) == 0 {
		return domain.WrapError(domain.ErrInvalidFile, "inspect upload",
			fmt.Errorf("empty file"))
	}
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return domain.WrapError(domain.ErrInvalidFile, "inspect upload", err)
	}
	return nil
}
