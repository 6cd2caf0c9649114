// Package content turns raw extracted text into ordered, enriched study
// topics.
package content

import "github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"

type Builder struct {
	segmenter *Segmenter
	enricher  *Enricher
}

func NewBuilder(cfg heuristics.Config) *Builder {
	return &Builder{
		segmenter: NewSegmenter(cfg.Segment),
		enricher:  NewEnricher(cfg.Enrich),
	}
}

// Build normalizes, segments and enriches raw text. Orders are 0-based and
// follow segment order.
func (b *Builder) Build(raw string) []Topic {
	segs := b.segmenter.Segment(Normalize(raw))
	if len(segs) == 0 {
		return nil
	}
	topics := make([]Topic, 0, len(segs))
	for i, seg := range segs {
		topics = append(topics, b.enricher.Enrich(seg, i))
	}
	return topics
}

func (b *Builder) Enricher() *Enricher { return b.enricher }
