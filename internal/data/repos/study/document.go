package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, doc *types.Document) (*types.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Document, error)
	UpdateExtraction(dbc dbctx.Context, id uuid.UUID, rawText string, meta types.DocumentMeta, status string) error
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(dbc dbctx.Context, doc *types.Document) (*types.Document, error) {
	if doc == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(doc).Error; err != nil {
		return nil, mapError("create document", err)
	}
	return doc, nil
}

func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error) {
	var doc types.Document
	if err := dbc.DB(r.db).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, mapError("get document", err)
	}
	return &doc, nil
}

// ListByOwner returns the owner's documents newest first, without raw text.
func (r *documentRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Document, error) {
	results := []*types.Document{}
	if ownerID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Omit("raw_text").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, mapError("list documents", err)
	}
	return results, nil
}

func (r *documentRepo) UpdateExtraction(dbc dbctx.Context, id uuid.UUID, rawText string, meta types.DocumentMeta, status string) error {
	res := dbc.DB(r.db).
		Model(&types.Document{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"raw_text": rawText,
			"meta":     types.MarshalMeta(meta),
			"status":   status,
		})
	if res.Error != nil {
		return mapError("update document extraction", res.Error)
	}
	if res.RowsAffected == 0 {
		return mapError("update document extraction", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *documentRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	res := dbc.DB(r.db).Model(&types.Document{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return mapError("update document status", res.Error)
	}
	if res.RowsAffected == 0 {
		return mapError("update document status", gorm.ErrRecordNotFound)
	}
	return nil
}
