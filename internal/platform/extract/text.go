package extract

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var errBinary = errors.New("content does not look like text")

func extractPlain(data []byte) (string, error) {
	if !isProbablyText(data) {
		return "", errBinary
	}
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return s, nil
}

// isProbablyText samples the first 4 KiB: no NULs and at least 90%
// printable or whitespace bytes.
func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	if len(sample) == 0 {
		return true
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}
