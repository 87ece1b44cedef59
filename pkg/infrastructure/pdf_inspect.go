package infrastructure

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFInspector parses PDF bytes to check their structure.
type PDFInspector struct{}

func NewPDFInspector() *PDFInspector { return &PDFInspector{} }

// PageCount returns the number of pages declared by the document.
func (PDFInspector) PageCount(b []byte) (n int, err error) {
	// the reader panics on some malformed inputs instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()
	rd, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return rd.NumPage(), nil
}
