package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type StudyPlanRepo interface {
	// Create inserts the plan together with its sessions.
	Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyPlan, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.StudyPlan, error)
	GetSessionByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error)
	SetSessionDone(dbc dbctx.Context, id uuid.UUID, done bool) (*types.StudySession, error)
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	repoLog := baseLog.With("repo", "StudyPlanRepo")
	return &studyPlanRepo{db: db, log: repoLog}
}

func orderedSessions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *studyPlanRepo) Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error) {
	if plan == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(plan).Error; err != nil {
		return nil, mapError("create study plan", err)
	}
	return plan, nil
}

func (r *studyPlanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyPlan, error) {
	var plan types.StudyPlan
	if err := dbc.DB(r.db).
		Preload("Sessions", orderedSessions).
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		return nil, mapError("get study plan", err)
	}
	return &plan, nil
}

func (r *studyPlanRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.StudyPlan, error) {
	results := []*types.StudyPlan{}
	if ownerID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("Sessions", orderedSessions).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, mapError("list study plans", err)
	}
	return results, nil
}

func (r *studyPlanRepo) GetSessionByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error) {
	var s types.StudySession
	if err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, mapError("get study session", err)
	}
	return &s, nil
}

func (r *studyPlanRepo) SetSessionDone(dbc dbctx.Context, id uuid.UUID, done bool) (*types.StudySession, error) {
	res := dbc.DB(r.db).Model(&types.StudySession{}).Where("id = ?", id).Update("done", done)
	if res.Error != nil {
		return nil, mapError("update study session", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, mapError("update study session", gorm.ErrRecordNotFound)
	}
	return r.GetSessionByID(dbc, id)
}
