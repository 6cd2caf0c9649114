package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

var errMissingDone = errors.New("body must include boolean 'done'")

type StudyHandler struct {
	log   *logger.Logger
	plans services.StudyPlanService
}

func NewStudyHandler(log *logger.Logger, plans services.StudyPlanService) *StudyHandler {
	return &StudyHandler{log: log.With("handler", "StudyHandler"), plans: plans}
}

// POST /api/study/plans
// body: { "document_id": "...", "topic_ids": ["..."], "due_date": "YYYY-MM-DD", "pace": "normal" }
func (h *StudyHandler) CreatePlan(c *gin.Context) {
	var req struct {
		DocumentID uuid.UUID   `json:"document_id"`
		TopicIDs   []uuid.UUID `json:"topic_ids"`
		DueDate    string      `json:"due_date"`
		Pace       string      `json:"pace"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	plan, err := h.plans.CreatePlan(c.Request.Context(), services.CreatePlanInput{
		DocumentID: req.DocumentID,
		TopicIDs:   req.TopicIDs,
		DueDate:    req.DueDate,
		Pace:       req.Pace,
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_plan_failed")
		return
	}
	response.RespondOK(c, plan)
}

// GET /api/study/plans
func (h *StudyHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListMine(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err, "load_plans_failed")
		return
	}
	response.RespondOK(c, plans)
}

// PATCH /api/study/sessions/:id
// body: { "done": true }
func (h *StudyHandler) SetSessionDone(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Done *bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Done == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingDone)
		return
	}
	sess, err := h.plans.SetSessionDone(c.Request.Context(), id, *req.Done)
	if err != nil {
		response.RespondServiceError(c, err, "update_session_failed")
		return
	}
	response.RespondOK(c, sess)
}
