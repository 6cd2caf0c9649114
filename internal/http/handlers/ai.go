package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type AIHandler struct {
	log        *logger.Logger
	summarizer services.SummarizeService
}

func NewAIHandler(log *logger.Logger, summarizer services.SummarizeService) *AIHandler {
	return &AIHandler{log: log.With("handler", "AIHandler"), summarizer: summarizer}
}

// POST /api/ai/summarize
// body: { "text": "...", "max_sentences": 5 }
func (h *AIHandler) Summarize(c *gin.Context) {
	var req struct {
		Text         string `json:"text"`
		MaxSentences int    `json:"max_sentences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	summary, err := h.summarizer.Summarize(c.Request.Context(), req.Text, req.MaxSentences)
	if err != nil {
		h.log.Warn("summarize failed", "error", err.Error())
		response.RespondServiceError(c, err, "summarize_failed")
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}
