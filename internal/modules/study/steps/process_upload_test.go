package steps

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/extract"
	"github.com/yungbote/studyplan-backend/internal/platform/storage"
)

const uploadText = "Introduction\nThis is a short intro.\n\nConclusion\nThis wraps up."

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, string, string, []byte) (extract.Extraction, error) {
	if f.err != nil {
		return extract.Extraction{}, f.err
	}
	return extract.Extraction{Kind: extract.KindText, Text: f.text, Pages: 0}, nil
}

type fakeGen struct {
	raw   string
	err   error
	hints []recs.TopicHint
}

func (f *fakeGen) GenerateQueries(_ context.Context, _ string, hints []recs.TopicHint) (string, error) {
	f.hints = hints
	return f.raw, f.err
}

type fakeSearch map[string][]recs.VideoItem

func (f fakeSearch) SearchVideos(_ context.Context, q string) ([]recs.VideoItem, error) {
	return f[q], nil
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader, string) error {
	return errors.New("disk full")
}
func (failingStore) Open(context.Context, string) (io.ReadCloser, error) { return nil, errors.New("nope") }
func (failingStore) Delete(context.Context, string) error               { return nil }

type fixture struct {
	deps ProcessUploadDeps
	gen  *fakeGen
}

func newFixture(t *testing.T, ex TextExtractor) fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	gen := &fakeGen{raw: `["intro video", "wrap up video"]`}
	search := fakeSearch{
		"intro video":   {{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}},
		"wrap up video": {{VideoID: "b"}, {VideoID: "d"}},
	}
	return fixture{
		gen: gen,
		deps: ProcessUploadDeps{
			Log:       log,
			Blobs:     blobs,
			Extractor: ex,
			Builder:   content.NewBuilder(heuristics.Default()),
			Recs:      recs.NewAggregator(gen, search, log, recs.DefaultConfig()),
			Documents: repos.NewDocumentRepo(db, log),
			Topics:    repos.NewTopicRepo(db, log),
			VideoRecs: repos.NewVideoRecRepo(db, log),
			Now:       func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		},
	}
}

func TestProcessUploadHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeExtractor{text: uploadText})
	owner := uuid.New()

	out, err := ProcessUpload(ctx, f.deps, ProcessUploadInput{
		OwnerID: owner, OriginalName: "notes.txt", MimeType: "text/plain", Data: []byte(uploadText),
	})
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if out.Document == nil || out.Document.Status != types.DocumentStatusProcessed {
		t.Fatalf("document not processed: %+v", out.Document)
	}
	if meta := out.Document.DecodeMeta(); meta.Words != 10 {
		t.Fatalf("word count: got %d", meta.Words)
	}
	if out.TopicsCount != 2 || out.Topics[0].Title != "Introduction" || out.Topics[1].Order != 1 {
		t.Fatalf("unexpected topics: count=%d %+v", out.TopicsCount, out.Topics)
	}
	if len(f.gen.hints) != 2 || f.gen.hints[0].Title != "Introduction" {
		t.Fatalf("topic hints not passed: %+v", f.gen.hints)
	}
	if len(out.Queries) != 2 {
		t.Fatalf("queries: %v", out.Queries)
	}
	var ids []string
	for _, v := range out.Videos {
		ids = append(ids, v.VideoID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "d" {
		t.Fatalf("videos: got %v want [a b d]", ids)
	}

	dbc := dbctx.Context{Ctx: ctx}
	stored, err := f.deps.Documents.GetByID(dbc, out.Document.ID)
	if err != nil || stored.RawText != uploadText {
		t.Fatalf("GetByID: err=%v text=%q", err, stored.RawText)
	}
	set, err := f.deps.VideoRecs.GetLatestByDocumentID(dbc, out.Document.ID)
	if err != nil || len(set.VideoItems()) != 3 {
		t.Fatalf("GetLatestByDocumentID: err=%v", err)
	}
	rc, err := f.deps.Blobs.Open(ctx, stored.StorageKey)
	if err != nil {
		t.Fatalf("raw file not stored: %v", err)
	}
	_ = rc.Close()
}

func TestProcessUploadExtractionFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, fakeExtractor{err: errors.New("corrupt pdf")})
	f.gen.raw = ""
	f.gen.err = errors.New("model down")

	out, err := ProcessUpload(context.Background(), f.deps, ProcessUploadInput{
		OwnerID: uuid.New(), OriginalName: "scan.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if out.Document.Status != types.DocumentStatusProcessed || out.Document.RawText != "" {
		t.Fatalf("unexpected document: %+v", out.Document)
	}
	if out.TopicsCount != 0 || len(out.Queries) != 0 || len(out.Videos) != 0 {
		t.Fatalf("expected empty output, got %+v", out)
	}
	if _, err := f.deps.VideoRecs.GetLatestByDocumentID(dbctx.Context{Ctx: context.Background()}, out.Document.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected no recommendation set, got %v", err)
	}
}

func TestProcessUploadStorageFailureIsFatal(t *testing.T) {
	f := newFixture(t, fakeExtractor{text: uploadText})
	f.deps.Blobs = failingStore{}
	owner := uuid.New()

	if _, err := ProcessUpload(context.Background(), f.deps, ProcessUploadInput{
		OwnerID: owner, OriginalName: "notes.txt", Data: []byte(uploadText),
	}); err == nil {
		t.Fatalf("expected error")
	}
	docs, err := f.deps.Documents.ListByOwner(dbctx.Context{Ctx: context.Background()}, owner)
	if err != nil || len(docs) != 0 {
		t.Fatalf("no document should exist: err=%v len=%d", err, len(docs))
	}
}

func TestProcessUploadRejectsBadInput(t *testing.T) {
	f := newFixture(t, fakeExtractor{text: uploadText})

	_, err := ProcessUpload(context.Background(), f.deps, ProcessUploadInput{OriginalName: "a.txt", Data: []byte("x")})
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("missing owner: got %v", err)
	}
	_, err = ProcessUpload(context.Background(), f.deps, ProcessUploadInput{OwnerID: uuid.New(), OriginalName: "a.txt"})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("missing data: got %v", err)
	}
}

func TestProcessUploadWithoutRecs(t *testing.T) {
	f := newFixture(t, fakeExtractor{text: uploadText})
	f.deps.Recs = nil

	out, err := ProcessUpload(context.Background(), f.deps, ProcessUploadInput{
		OwnerID: uuid.New(), OriginalName: "notes.txt", Data: []byte(uploadText),
	})
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if out.TopicsCount != 2 || out.Queries == nil || out.Videos == nil || len(out.Videos) != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
}
