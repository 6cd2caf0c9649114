package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type TopicRepo interface {
	Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error)
	GetByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Topic, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

// Create inserts one document's topics in a single batch.
func (r *topicRepo) Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error) {
	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}
	if err := dbc.DB(r.db).Create(&topics).Error; err != nil {
		return nil, mapError("create topics", err)
	}
	return topics, nil
}

func (r *topicRepo) GetByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Topic, error) {
	results := []*types.Topic{}
	if documentID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("document_id = ?", documentID).
		Order("topic_order ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("get topics by document", err)
	}
	return results, nil
}

func (r *topicRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Topic, error) {
	results := []*types.Topic{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Order("topic_order ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("get topics", err)
	}
	return results, nil
}
