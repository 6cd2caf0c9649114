package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	"github.com/yungbote/studyplan-backend/internal/observability"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/extract"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/storage"
)

type TextExtractor interface {
	Extract(ctx context.Context, name, mimeType string, data []byte) (extract.Extraction, error)
}

type ProcessUploadDeps struct {
	Log *logger.Logger

	Blobs     storage.BlobStore
	Extractor TextExtractor
	Builder   *content.Builder
	// Recs is optional; without it no recommendation set is produced.
	Recs *recs.Aggregator

	Documents repos.DocumentRepo
	Topics    repos.TopicRepo
	VideoRecs repos.VideoRecRepo

	Now func() time.Time
}

type ProcessUploadInput struct {
	OwnerID      uuid.UUID
	OriginalName string
	MimeType     string
	Data         []byte
}

type ProcessUploadOutput struct {
	Document    *types.Document   `json:"document"`
	Topics      []*types.Topic    `json:"-"`
	TopicsCount int               `json:"topics_count"`
	Queries     []string          `json:"queries"`
	Videos      []types.VideoItem `json:"recommended_videos"`
}

// ProcessUpload stores the raw file, records the document and then runs
// extract, segment, persist_topics and recommend. Only the first two are
// fatal; every later stage logs its failure and the upload continues with
// what it has.
func ProcessUpload(ctx context.Context, deps ProcessUploadDeps, in ProcessUploadInput) (ProcessUploadOutput, error) {
	out := ProcessUploadOutput{Queries: []string{}, Videos: []types.VideoItem{}}
	if deps.Log == nil || deps.Blobs == nil || deps.Extractor == nil || deps.Builder == nil || deps.Documents == nil || deps.Topics == nil {
		return out, fmt.Errorf("process_upload: missing deps")
	}
	if in.OwnerID == uuid.Nil {
		return out, fmt.Errorf("process_upload: missing owner: %w", pkgerrors.ErrUnauthorized)
	}
	if strings.TrimSpace(in.OriginalName) == "" || len(in.Data) == 0 {
		return out, fmt.Errorf("process_upload: missing file: %w", pkgerrors.ErrInvalidArgument)
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	log := deps.Log.With("step", "process_upload", "owner_id", in.OwnerID.String())
	dbc := dbctx.Context{Ctx: ctx}

	key := storage.ObjectKey(in.OwnerID, in.OriginalName, now())
	if err := deps.Blobs.Put(ctx, key, bytes.NewReader(in.Data), in.MimeType); err != nil {
		return out, fmt.Errorf("process_upload: store raw file: %w", err)
	}

	doc, err := deps.Documents.Create(dbc, &types.Document{
		OwnerID:      in.OwnerID,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		SizeBytes:    int64(len(in.Data)),
		StorageKey:   key,
		Status:       types.DocumentStatusUploaded,
	})
	if err != nil {
		if delErr := deps.Blobs.Delete(ctx, key); delErr != nil {
			log.Warn("orphaned raw file", "storage_key", key, "error", delErr)
		}
		return out, fmt.Errorf("process_upload: create document: %w", err)
	}
	out.Document = doc
	log = log.With("document_id", doc.ID.String())

	text := extractStage(ctx, deps, log, doc, in)

	built := segmentStage(ctx, deps, text)

	out.Topics = persistTopicsStage(ctx, deps, log, doc.ID, built)
	out.TopicsCount = len(out.Topics)

	if res := recommendStage(ctx, deps, log, doc, text, out.Topics); res != nil {
		out.Queries = res.Queries
		if res.Videos != nil {
			out.Videos = res.Videos
		}
	}

	log.Info("upload processed",
		"words", doc.DecodeMeta().Words,
		"topics", out.TopicsCount,
		"queries", len(out.Queries),
		"videos", len(out.Videos),
	)
	return out, nil
}

func extractStage(ctx context.Context, deps ProcessUploadDeps, log *logger.Logger, doc *types.Document, in ProcessUploadInput) string {
	ctx, span := observability.Tracer().Start(ctx, "extract")
	defer span.End()

	ex, err := deps.Extractor.Extract(ctx, in.OriginalName, in.MimeType, in.Data)
	if err != nil {
		log.Warn("text extraction failed; continuing with empty text", "error", err)
		ex = extract.Extraction{Pages: ex.Pages}
	}
	meta := types.DocumentMeta{Words: len(strings.Fields(ex.Text)), Pages: ex.Pages}
	span.SetAttributes(attribute.Int("words", meta.Words), attribute.Int("pages", meta.Pages))

	if err := deps.Documents.UpdateExtraction(dbctx.Context{Ctx: ctx}, doc.ID, ex.Text, meta, types.DocumentStatusProcessed); err != nil {
		log.Error("persist extraction failed", "error", err)
		return ex.Text
	}
	doc.RawText = ex.Text
	doc.Meta = types.MarshalMeta(meta)
	doc.Status = types.DocumentStatusProcessed
	return ex.Text
}

func segmentStage(ctx context.Context, deps ProcessUploadDeps, text string) []content.Topic {
	_, span := observability.Tracer().Start(ctx, "segment")
	defer span.End()

	topics := deps.Builder.Build(text)
	span.SetAttributes(attribute.Int("topics", len(topics)))
	return topics
}

func persistTopicsStage(ctx context.Context, deps ProcessUploadDeps, log *logger.Logger, documentID uuid.UUID, built []content.Topic) []*types.Topic {
	if len(built) == 0 {
		return nil
	}
	ctx, span := observability.Tracer().Start(ctx, "persist_topics")
	defer span.End()

	rows := make([]*types.Topic, 0, len(built))
	for _, t := range built {
		rows = append(rows, &types.Topic{
			DocumentID:  documentID,
			Title:       t.Title,
			SectionText: t.Body,
			Summary:     t.Summary,
			Order:       t.Order,
			Difficulty:  t.Difficulty,
			EstMinutes:  t.Minutes,
			Keywords:    types.MarshalStrings(t.Keywords),
		})
	}
	inserted, err := deps.Topics.Create(dbctx.Context{Ctx: ctx}, rows)
	if err != nil {
		span.RecordError(err)
		log.Error("persist topics failed", "error", err, "topics", len(rows))
		return nil
	}
	return inserted
}

func recommendStage(ctx context.Context, deps ProcessUploadDeps, log *logger.Logger, doc *types.Document, text string, topics []*types.Topic) *recs.Result {
	if deps.Recs == nil {
		return nil
	}
	ctx, span := observability.Tracer().Start(ctx, "recommend")
	defer span.End()

	hints := make([]recs.TopicHint, 0, len(topics))
	for _, t := range topics {
		hints = append(hints, recs.TopicHint{Title: t.Title, Summary: t.Summary})
	}
	res := deps.Recs.Recommend(ctx, text, hints)
	if res == nil {
		return nil
	}
	span.SetAttributes(attribute.Int("queries", len(res.Queries)), attribute.Int("videos", len(res.Videos)))

	if deps.VideoRecs == nil {
		return res
	}
	_, err := deps.VideoRecs.Create(dbctx.Context{Ctx: ctx}, &types.RecommendationSet{
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		Queries:    types.MarshalStrings(res.Queries),
		Items:      types.MarshalVideoItems(res.Videos),
	})
	if err != nil {
		span.RecordError(err)
		log.Error("persist recommendation set failed", "error", err)
	}
	return res
}
