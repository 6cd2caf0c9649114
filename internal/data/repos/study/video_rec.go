package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type VideoRecRepo interface {
	Create(dbc dbctx.Context, set *types.RecommendationSet) (*types.RecommendationSet, error)
	// GetLatestByDocumentID returns ErrNotFound when the document has no set.
	GetLatestByDocumentID(dbc dbctx.Context, documentID uuid.UUID) (*types.RecommendationSet, error)
}

type videoRecRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRecRepo(db *gorm.DB, baseLog *logger.Logger) VideoRecRepo {
	repoLog := baseLog.With("repo", "VideoRecRepo")
	return &videoRecRepo{db: db, log: repoLog}
}

func (r *videoRecRepo) Create(dbc dbctx.Context, set *types.RecommendationSet) (*types.RecommendationSet, error) {
	if set == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(set).Error; err != nil {
		return nil, mapError("create video rec", err)
	}
	return set, nil
}

func (r *videoRecRepo) GetLatestByDocumentID(dbc dbctx.Context, documentID uuid.UUID) (*types.RecommendationSet, error) {
	var set types.RecommendationSet
	if err := dbc.DB(r.db).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&set).Error; err != nil {
		return nil, mapError("get latest video rec", err)
	}
	return &set, nil
}
