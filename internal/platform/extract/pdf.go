package extract

import (
	"bytes"
	"fmt"
	"io"

	pdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func extractPDF(data []byte) (text string, err error) {
	if !isPDF(data) {
		return "", fmt.Errorf("missing %%PDF header")
	}
	// The reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

func pdfPageCount(data []byte) (int, error) {
	if !isPDF(data) {
		return 0, fmt.Errorf("missing %%PDF header")
	}
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
