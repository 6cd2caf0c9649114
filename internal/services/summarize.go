package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const defaultSummarySentences = 5

type Summarizer interface {
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}

type SummarizeService interface {
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}

type summarizeService struct {
	log      *logger.Logger
	llm      Summarizer
	fallback *content.Enricher
}

// NewSummarizeService uses llm when set and the extractive enricher summary
// otherwise.
func NewSummarizeService(log *logger.Logger, llm Summarizer, fallback *content.Enricher) SummarizeService {
	return &summarizeService{log: log.With("service", "SummarizeService"), llm: llm, fallback: fallback}
}

func (s *summarizeService) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("provide non-empty text: %w", pkgerrors.ErrInvalidArgument)
	}
	if maxSentences <= 0 {
		maxSentences = defaultSummarySentences
	}
	if s.llm != nil {
		return s.llm.Summarize(ctx, text, maxSentences)
	}
	if s.fallback == nil {
		return "", fmt.Errorf("no summarizer configured")
	}
	s.log.Debug("summarizing without LLM", "max_sentences", maxSentences)
	return s.fallback.Summarize(content.Normalize(text), maxSentences), nil
}
