package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
)

// Segment is one contiguous study unit cut from normalized text.
type Segment struct {
	Title string
	Body  string
}

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:chapter|unit|lesson|module|topic)\s+\d+\b`),
	regexp.MustCompile(`(?i)^section\s+\d+(?:\.\d+)*\b`),
	regexp.MustCompile(`(?i)^(?:abstract|overview|introduction|background|objectives?|theory|method(?:s|ology)?|implementation|experiments?|results?|analysis|evaluation|discussion|limitations?|future\s+work|conclusion|summary|appendix|references)\b`),
}

// Title-Case fallback is case-sensitive; a case-insensitive version would
// turn every short unpunctuated line into a heading.
var titleLineRE = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\s*$`)

var spaceRunRE = regexp.MustCompile(`\s+`)

type Segmenter struct {
	cfg heuristics.Segment
}

func NewSegmenter(cfg heuristics.Segment) *Segmenter {
	return &Segmenter{cfg: cfg}
}

type heading struct {
	offset int    // byte offset of the line start
	line   string // raw heading line as it appears in the text
	title  string
}

// Segment splits normalized text into ordered segments. Empty text yields
// no segments.
func (s *Segmenter) Segment(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	headings := s.detectHeadings(text)
	if len(headings) == 0 {
		return s.capped(s.chunk(text, s.cfg.ChunkChars, nil, 0))
	}

	segs := s.sliceByHeadings(text, headings)
	if len(segs) < s.cfg.BackfillBelow {
		segs = s.chunk(text, s.cfg.BackfillChars, segs, s.cfg.BackfillTarget)
	}
	return s.capped(segs)
}

func (s *Segmenter) detectHeadings(text string) []heading {
	var out []heading
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if s.isHeading(line) {
			out = append(out, heading{
				offset: offset,
				line:   strings.TrimRight(line, " "),
				title:  TitleCase(line),
			})
		}
		offset += len(line) + 1
	}
	return out
}

func (s *Segmenter) isHeading(line string) bool {
	trimmed := strings.TrimRight(line, " ")
	if trimmed == "" {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	n := utf8.RuneCountInString(trimmed)
	if n < s.cfg.TitleMinChars || n > s.cfg.TitleMaxChars {
		return false
	}
	return titleLineRE.MatchString(trimmed)
}

// sliceByHeadings cuts text between consecutive heading offsets. Bodies
// under MinBodyTokens are noise, unless every body is that short, in which
// case the non-empty ones are kept so short documents still get topics.
func (s *Segmenter) sliceByHeadings(text string, hs []heading) []Segment {
	all := make([]Segment, 0, len(hs))
	kept := make([]Segment, 0, len(hs))
	for i, h := range hs {
		end := len(text)
		if i+1 < len(hs) {
			end = hs[i+1].offset
		}
		body := strings.TrimSpace(text[h.offset+len(h.line) : end])
		seg := Segment{Title: h.title, Body: body}
		if body != "" {
			all = append(all, seg)
		}
		if len(strings.Fields(body)) >= s.cfg.MinBodyTokens {
			kept = append(kept, seg)
		}
	}
	if len(kept) == 0 {
		return all
	}
	return kept
}

// chunk appends fixed-size windows to segs, numbering titles from the
// current count. limit > 0 stops once that many segments exist.
func (s *Segmenter) chunk(text string, size int, segs []Segment, limit int) []Segment {
	runes := []rune(text)
	for i := 0; i < len(runes); i += size {
		if limit > 0 && len(segs) >= limit {
			break
		}
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		body := strings.TrimSpace(string(runes[i:end]))
		if utf8.RuneCountInString(body) < s.cfg.MinChunkChars {
			continue
		}
		segs = append(segs, Segment{Title: fmt.Sprintf("Section %d", len(segs)+1), Body: body})
	}
	return segs
}

func (s *Segmenter) capped(segs []Segment) []Segment {
	if s.cfg.MaxSegments > 0 && len(segs) > s.cfg.MaxSegments {
		return segs[:s.cfg.MaxSegments]
	}
	return segs
}

// TitleCase collapses whitespace and upper-cases every letter that starts a
// word.
func TitleCase(s string) string {
	s = spaceRunRE.ReplaceAllString(strings.TrimSpace(s), " ")
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		if !prevWord && unicode.IsLower(r) {
			r = unicode.ToUpper(r)
		}
		prevWord = unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		b.WriteRune(r)
	}
	return b.String()
}
