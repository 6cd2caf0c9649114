package content

import (
	"regexp"
	"strings"
)

var (
	horizontalSpaceRE = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankRunRE        = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes extracted text before segmentation: carriage
// returns removed, horizontal whitespace runs collapsed to one space, three
// or more newlines collapsed to a paragraph break, outer whitespace trimmed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ReplaceAll(raw, "\r", "")
	s = horizontalSpaceRE.ReplaceAllString(s, " ")
	s = blankRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
