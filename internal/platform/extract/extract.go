package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Kind string

const (
	KindPDF      Kind = "pdf"
	KindDOCX     Kind = "docx"
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
)

// Extraction is the plain text of an upload plus its meta.
type Extraction struct {
	Kind  Kind
	Text  string
	Pages int
	Words int
}

// OCR recognises text in scanned documents. Optional.
type OCR interface {
	ExtractText(ctx context.Context, mimeType string, data []byte) (string, error)
}

var ErrEmptyFile = errors.New("empty file")

type Extractor struct {
	log *logger.Logger
	ocr OCR
}

func New(log *logger.Logger, ocr OCR) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{log: log.With("service", "TextExtractor"), ocr: ocr}
}

// Detect picks the parser: DOCX when the mime mentions "word" or the name
// ends in .docx, PDF on "pdf" / .pdf, markdown on .md, else plain text.
func Detect(name, mimeType string) Kind {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(mt, "word") || ext == ".docx":
		return KindDOCX
	case strings.Contains(mt, "pdf") || ext == ".pdf":
		return KindPDF
	case strings.Contains(mt, "markdown") || ext == ".md" || ext == ".markdown":
		return KindMarkdown
	default:
		return KindText
	}
}

// Extract returns the document text. Callers treat any error as "no text".
func (e *Extractor) Extract(ctx context.Context, name, mimeType string, data []byte) (Extraction, error) {
	kind := Detect(name, mimeType)
	out := Extraction{Kind: kind}
	if len(data) == 0 {
		return out, fmt.Errorf("%w: name=%s mime=%s", ErrEmptyFile, name, mimeType)
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindPDF:
		text, err = extractPDF(data)
		if pages, perr := pdfPageCount(data); perr == nil {
			out.Pages = pages
		} else {
			e.log.Debug("pdf page count failed", "name", name, "error", perr)
		}
		if strings.TrimSpace(text) == "" && e.ocr != nil {
			e.log.Info("pdf has no text layer, running OCR", "name", name, "pages", out.Pages)
			text, err = e.ocr.ExtractText(ctx, "application/pdf", data)
		}
	case KindMarkdown:
		text, err = extractMarkdown(data)
	default:
		text, err = extractPlain(data)
	}
	if err != nil {
		return out, fmt.Errorf("extract %s %q: %w", kind, name, err)
	}
	out.Text = text
	out.Words = len(strings.Fields(text))
	return out, nil
}
