package content

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
)

func newTestSegmenter() *Segmenter {
	return NewSegmenter(heuristics.Default().Segment)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"   \n\t  ":            "",
		"a\r\n\t b\n\n\n\nc  ": "a\n b\n\nc",
		"x  y":                 "x y",
		"one\n\ntwo":           "one\n\ntwo",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestSegmentEmpty(t *testing.T) {
	if segs := newTestSegmenter().Segment(Normalize("  \n ")); len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
}

func TestSegmentShortNamedSections(t *testing.T) {
	text := Normalize("Introduction\nThis is a short intro.\n\nConclusion\nThis wraps up.")
	segs := newTestSegmenter().Segment(text)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Title != "Introduction" || segs[1].Title != "Conclusion" {
		t.Fatalf("unexpected titles: %q, %q", segs[0].Title, segs[1].Title)
	}
	if segs[0].Body != "This is a short intro." {
		t.Fatalf("heading not stripped from body: %q", segs[0].Body)
	}
}

func TestSegmentUnstructuredFallsBackToChunks(t *testing.T) {
	text := Normalize(strings.Repeat("lorem ipsum dolor sit amet ", 190))
	segs := newTestSegmenter().Segment(text)
	if len(segs) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(segs))
	}
	for i, seg := range segs {
		if want := fmt.Sprintf("Section %d", i+1); seg.Title != want {
			t.Fatalf("chunk %d title=%q want=%q", i, seg.Title, want)
		}
		if n := utf8.RuneCountInString(seg.Body); n < 200 || n > 1200 {
			t.Fatalf("chunk %d has %d chars", i, n)
		}
	}
}

func TestSegmentDropsNoiseSections(t *testing.T) {
	text := Normalize(strings.Join([]string{
		"Chapter 1 basics", words(40), "",
		"Chapter 2 middle", "short text", "",
		"Chapter 3 advanced", words(40), "",
		"Chapter 4 end", words(40),
	}, "\n"))
	segs := newTestSegmenter().Segment(text)
	got := make([]string, 0, len(segs))
	for _, s := range segs {
		got = append(got, s.Title)
	}
	want := []string{"Chapter 1 Basics", "Chapter 3 Advanced", "Chapter 4 End"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("titles=%v want=%v", got, want)
	}
}

func TestSegmentBackfillsFewHeadings(t *testing.T) {
	body := strings.Repeat("alpha beta gamma ", 176)
	text := Normalize("Overview\n" + body)
	segs := newTestSegmenter().Segment(text)
	if len(segs) != 3 {
		t.Fatalf("expected heading + 2 backfill chunks, got %d", len(segs))
	}
	if segs[0].Title != "Overview" || segs[1].Title != "Section 2" || segs[2].Title != "Section 3" {
		t.Fatalf("unexpected titles: %q %q %q", segs[0].Title, segs[1].Title, segs[2].Title)
	}
}

func TestSegmentCapsAtMax(t *testing.T) {
	parts := make([]string, 0, 50)
	for i := 1; i <= 25; i++ {
		parts = append(parts, fmt.Sprintf("Lesson %d", i), words(35), "")
	}
	segs := newTestSegmenter().Segment(Normalize(strings.Join(parts, "\n")))
	if len(segs) != 20 {
		t.Fatalf("expected cap of 20, got %d", len(segs))
	}
	if segs[0].Title != "Lesson 1" || segs[19].Title != "Lesson 20" {
		t.Fatalf("earliest segments not kept: %q .. %q", segs[0].Title, segs[19].Title)
	}
}

func TestHeadingOnlyAtLineStart(t *testing.T) {
	s := newTestSegmenter()
	cases := []struct {
		line string
		want bool
	}{
		{"Introduction", true},
		{"SECTION 2.1 Scope", true},
		{"future   work", true},
		{"Linear Algebra Basics", true},
		{" Introduction", false},
		{"the introduction is here", false},
		{"This is a short intro.", false},
		{"Linear Algebra Basics.", false},
		{"Hi", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := s.isHeading(tc.line); got != tc.want {
			t.Fatalf("isHeading(%q)=%v want=%v", tc.line, got, tc.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("  section   2.1 the   basics "); got != "Section 2.1 The Basics" {
		t.Fatalf("TitleCase=%q", got)
	}
}
