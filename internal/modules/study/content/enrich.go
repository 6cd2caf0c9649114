package content

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
)

const truncationMarker = "…"

// Topic is an enriched segment ready to persist.
type Topic struct {
	Title      string
	Body       string
	Summary    string
	Order      int
	Difficulty int
	Minutes    int
	Keywords   []string
}

type Enricher struct {
	cfg heuristics.Enrich
}

func NewEnricher(cfg heuristics.Enrich) *Enricher {
	return &Enricher{cfg: cfg}
}

// Enrich never fails; an empty body gets the minimum-bound values.
func (e *Enricher) Enrich(seg Segment, order int) Topic {
	wc := len(strings.Fields(seg.Body))
	return Topic{
		Title:      seg.Title,
		Body:       seg.Body,
		Summary:    e.Summarize(seg.Body, 0),
		Order:      order,
		Difficulty: e.Difficulty(wc),
		Minutes:    e.Minutes(wc),
		Keywords:   e.Keywords(seg.Body),
	}
}

// Summarize joins the first k sentences. k <= 0 means the configured
// default; k is capped at MaxSummarySentences.
func (e *Enricher) Summarize(body string, k int) string {
	if k <= 0 {
		k = e.cfg.SummarySentences
	}
	if e.cfg.MaxSummarySentences > 0 && k > e.cfg.MaxSummarySentences {
		k = e.cfg.MaxSummarySentences
	}
	sents := SplitSentences(body)
	if len(sents) > k {
		sents = sents[:k]
	}
	summary := strings.Join(sents, " ")
	if max := e.cfg.SummaryMaxChars; max > 0 && utf8.RuneCountInString(summary) > max {
		summary = string([]rune(summary)[:max]) + truncationMarker
	}
	return summary
}

func (e *Enricher) Difficulty(wordCount int) int {
	for _, step := range e.cfg.DifficultySteps {
		if wordCount < step.BelowWords {
			return step.Level
		}
	}
	return e.cfg.DifficultyMax
}

func (e *Enricher) Minutes(wordCount int) int {
	m := int(math.Round(float64(wordCount) / float64(e.cfg.WordsPerMinute)))
	if m < e.cfg.MinMinutes {
		return e.cfg.MinMinutes
	}
	return m
}

// Keywords returns distinct lowercase alphabetic tokens in first-seen order.
func (e *Enricher) Keywords(body string) []string {
	tokens := strings.FieldsFunc(body, func(r rune) bool { return !unicode.IsLetter(r) })
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, max(e.cfg.MaxKeywords, 0))
	for _, tok := range tokens {
		if len(out) >= e.cfg.MaxKeywords {
			break
		}
		if utf8.RuneCountInString(tok) < e.cfg.KeywordMinChars {
			continue
		}
		tok = strings.ToLower(tok)
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// SplitSentences cuts text after each run of '.', '!' or '?'. Whatever
// follows the last terminator is kept as one final sentence.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	inTerm := false
	for i, r := range text {
		isTerm := r == '.' || r == '!' || r == '?'
		if inTerm && !isTerm {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				out = append(out, s)
			}
			start = i
		}
		inTerm = isTerm
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
