package recs

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	codeFenceRE   = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	leadingDashRE = regexp.MustCompile(`^-+\s*`)
)

// ParseQueries turns raw model output into at most maxQueries unique
// queries of at most maxChars runes. A JSON array of strings is preferred;
// anything else, including an array with no strings, is read one query per
// non-empty line.
func ParseQueries(raw string, maxQueries, maxChars int) []string {
	raw = strings.TrimSpace(raw)
	if m := codeFenceRE.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}
	if raw == "" {
		return nil
	}

	candidates, ok := jsonStrings(raw)
	if !ok {
		for _, line := range strings.Split(raw, "\n") {
			candidates = append(candidates, leadingDashRE.ReplaceAllString(strings.TrimSpace(line), ""))
		}
	}

	out := make([]string, 0, maxQueries)
	seen := make(map[string]struct{}, len(candidates))
	for _, q := range candidates {
		if len(out) >= maxQueries {
			break
		}
		q = truncateRunes(strings.TrimSpace(q), maxChars)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// jsonStrings reports ok only for a JSON array that is empty or holds at
// least one string.
func jsonStrings(raw string) ([]string, bool) {
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil, false
	}
	var out []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(arr) > 0 {
		return nil, false
	}
	return out, true
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
