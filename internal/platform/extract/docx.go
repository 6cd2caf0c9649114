package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDOCX reads word/document.xml and emits one line per paragraph so
// heading paragraphs stay at line starts.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx is not a zip container: %w", err)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%s not found in archive", docxBody)
	}
	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBody, err)
	}
	defer rc.Close()

	var (
		out   strings.Builder
		para  strings.Builder
		inRun bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBody, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inRun = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					out.WriteString(line)
					out.WriteString("\n\n")
				}
				para.Reset()
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
