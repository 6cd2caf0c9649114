package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/study/steps"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type UploadInput struct {
	OriginalName string
	MimeType     string
	Data         []byte
}

type DocumentService interface {
	Upload(ctx context.Context, in UploadInput) (steps.ProcessUploadOutput, error)
	ListMine(ctx context.Context) ([]*types.Document, error)
	// GetOwned returns ErrNotFound for a missing document and ErrForbidden
	// when the caller does not own it.
	GetOwned(ctx context.Context, id uuid.UUID) (*types.Document, error)
	Topics(ctx context.Context, documentID uuid.UUID) ([]*types.Topic, error)
	Videos(ctx context.Context, documentID uuid.UUID) ([]types.VideoItem, error)
}

type documentService struct {
	log       *logger.Logger
	pipeline  steps.ProcessUploadDeps
	documents repos.DocumentRepo
	topics    repos.TopicRepo
	videoRecs repos.VideoRecRepo
}

func NewDocumentService(log *logger.Logger, pipeline steps.ProcessUploadDeps) DocumentService {
	return &documentService{
		log:       log.With("service", "DocumentService"),
		pipeline:  pipeline,
		documents: pipeline.Documents,
		topics:    pipeline.Topics,
		videoRecs: pipeline.VideoRecs,
	}
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("missing identity: %w", pkgerrors.ErrUnauthorized)
	}
	return id, nil
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (steps.ProcessUploadOutput, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return steps.ProcessUploadOutput{}, err
	}
	return steps.ProcessUpload(ctx, s.pipeline, steps.ProcessUploadInput{
		OwnerID:      owner,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Data:         in.Data,
	})
}

func (s *documentService) ListMine(ctx context.Context) ([]*types.Document, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.documents.ListByOwner(dbctx.Context{Ctx: ctx}, owner)
}

func (s *documentService) GetOwned(ctx context.Context, id uuid.UUID) (*types.Document, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != owner {
		return nil, fmt.Errorf("document %s: %w", id, pkgerrors.ErrForbidden)
	}
	return doc, nil
}

func (s *documentService) Topics(ctx context.Context, documentID uuid.UUID) ([]*types.Topic, error) {
	if _, err := s.GetOwned(ctx, documentID); err != nil {
		return nil, err
	}
	return s.topics.GetByDocumentID(dbctx.Context{Ctx: ctx}, documentID)
}

func (s *documentService) Videos(ctx context.Context, documentID uuid.UUID) ([]types.VideoItem, error) {
	if _, err := s.GetOwned(ctx, documentID); err != nil {
		return nil, err
	}
	set, err := s.videoRecs.GetLatestByDocumentID(dbctx.Context{Ctx: ctx}, documentID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return []types.VideoItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := set.VideoItems()
	if items == nil {
		items = []types.VideoItem{}
	}
	return items, nil
}
