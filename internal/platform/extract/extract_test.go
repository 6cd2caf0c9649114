package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxBody)
	require.NoError(t, err)
	_, err = w.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fakeOCR struct {
	text  string
	calls int
}

func (f *fakeOCR) ExtractText(context.Context, string, []byte) (string, error) {
	f.calls++
	return f.text, nil
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name, mime string
		want       Kind
	}{
		{"notes.docx", "", KindDOCX},
		{"notes.bin", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindDOCX},
		{"paper.PDF", "", KindPDF},
		{"upload", "application/pdf", KindPDF},
		{"readme.md", "", KindMarkdown},
		{"readme", "text/markdown", KindMarkdown},
		{"notes.txt", "text/plain", KindText},
		{"", "", KindText},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.name, tc.mime), "%s/%s", tc.name, tc.mime)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, "Introduction", "Cells divide by mitosis.", "", "Conclusion")
	got, err := New(nil, nil).Extract(context.Background(), "bio.docx", "", data)
	require.NoError(t, err)
	assert.Equal(t, KindDOCX, got.Kind)
	assert.Equal(t, "Introduction\n\nCells divide by mitosis.\n\nConclusion", got.Text)
	assert.Equal(t, 6, got.Words)
}

func TestExtractDOCXNotZip(t *testing.T) {
	_, err := New(nil, nil).Extract(context.Background(), "bio.docx", "", []byte("plain words"))
	require.Error(t, err)
}

func TestExtractMarkdown(t *testing.T) {
	src := "# Introduction\n\nSome *emphasis* text.\n\n```go\nx := 1\n```\n"
	got, err := New(nil, nil).Extract(context.Background(), "intro.md", "", []byte(src))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Text, "Introduction\n"), "got %q", got.Text)
	assert.Contains(t, got.Text, "Some emphasis text.")
	assert.Contains(t, got.Text, "x := 1")
	assert.NotContains(t, got.Text, "#")
	assert.NotContains(t, got.Text, "*")
}

func TestExtractPlainText(t *testing.T) {
	got, err := New(nil, nil).Extract(context.Background(), "a.txt", "text/plain", []byte("one two\nthree"))
	require.NoError(t, err)
	assert.Equal(t, "one two\nthree", got.Text)
	assert.Equal(t, 3, got.Words)
	assert.Equal(t, 0, got.Pages)
}

func TestExtractRejectsBinaryAndEmpty(t *testing.T) {
	ex := New(nil, nil)
	_, err := ex.Extract(context.Background(), "blob", "", []byte{0x00, 0x01, 0x02})
	require.Error(t, err)

	_, err = ex.Extract(context.Background(), "a.txt", "", nil)
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	ocr := &fakeOCR{text: "scanned"}
	got, err := New(nil, ocr).Extract(context.Background(), "fake.pdf", "application/pdf", []byte("not really a pdf"))
	// OCR runs because there was no text layer.
	require.NoError(t, err)
	assert.Equal(t, 1, ocr.calls)
	assert.Equal(t, "scanned", got.Text)
	assert.Equal(t, 0, got.Pages)
}

func TestExtractCorruptPDFDoesNotPanic(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF")
	got, err := New(nil, nil).Extract(context.Background(), "broken.pdf", "", data)
	require.Error(t, err)
	assert.Empty(t, got.Text)
}
