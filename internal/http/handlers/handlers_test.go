package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/study/steps"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type fakeDocs struct {
	services.DocumentService
	uploaded services.UploadInput
	topics   []*types.Topic
	err      error
}

func (f *fakeDocs) Upload(_ context.Context, in services.UploadInput) (steps.ProcessUploadOutput, error) {
	f.uploaded = in
	if f.err != nil {
		return steps.ProcessUploadOutput{}, f.err
	}
	return steps.ProcessUploadOutput{
		Document:    &types.Document{ID: uuid.New(), OriginalName: in.OriginalName},
		TopicsCount: 2,
		Queries:     []string{"q"},
		Videos:      []types.VideoItem{},
	}, nil
}

func (f *fakeDocs) Topics(context.Context, uuid.UUID) ([]*types.Topic, error) {
	return f.topics, f.err
}

type fakePlans struct {
	services.StudyPlanService
	got  services.CreatePlanInput
	done *bool
	err  error
}

func (f *fakePlans) CreatePlan(_ context.Context, in services.CreatePlanInput) (*types.StudyPlan, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &types.StudyPlan{ID: uuid.New(), Pace: in.Pace}, nil
}

func (f *fakePlans) SetSessionDone(_ context.Context, id uuid.UUID, done bool) (*types.StudySession, error) {
	f.done = &done
	return &types.StudySession{ID: id, Done: done}, f.err
}

type fakeSummarizer struct{ err error }

func (f fakeSummarizer) Summarize(_ context.Context, text string, max int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%d:%s", max, text), nil
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(data)
	} else {
		_ = w.WriteField("note", "no file here")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestDocumentUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("stores file", func(t *testing.T) {
		docs := &fakeDocs{}
		r := gin.New()
		r.POST("/upload", NewDocumentHandler(logger.Nop(), docs, 0).Upload)

		body, ct := multipartBody(t, "file", "notes.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		if docs.uploaded.OriginalName != "notes.txt" || string(docs.uploaded.Data) != "hello" {
			t.Fatalf("unexpected upload input: %+v", docs.uploaded)
		}
		var out map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, key := range []string{"document", "topics_count", "queries", "recommended_videos"} {
			if _, ok := out[key]; !ok {
				t.Fatalf("response missing %q: %s", key, rec.Body.String())
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		r := gin.New()
		r.POST("/upload", NewDocumentHandler(logger.Nop(), &fakeDocs{}, 0).Upload)
		body, ct := multipartBody(t, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d want 400", rec.Code)
		}
	})

	t.Run("too large", func(t *testing.T) {
		r := gin.New()
		r.POST("/upload", NewDocumentHandler(logger.Nop(), &fakeDocs{}, 4).Upload)
		body, ct := multipartBody(t, "file", "big.txt", []byte("more than four bytes"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status=%d want 413", rec.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		r := gin.New()
		r.POST("/upload", NewDocumentHandler(logger.Nop(), &fakeDocs{err: fmt.Errorf("bucket down")}, 0).Upload)
		body, ct := multipartBody(t, "file", "notes.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "bucket down") {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
	})
}

func TestListTopicsStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"ok", "/topics/" + uuid.NewString(), nil, http.StatusOK},
		{"bad id", "/topics/not-a-uuid", nil, http.StatusBadRequest},
		{"missing", "/topics/" + uuid.NewString(), fmt.Errorf("doc: %w", pkgerrors.ErrNotFound), http.StatusNotFound},
		{"foreign", "/topics/" + uuid.NewString(), fmt.Errorf("doc: %w", pkgerrors.ErrForbidden), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/topics/:docId", NewDocumentHandler(logger.Nop(), &fakeDocs{err: tc.err, topics: []*types.Topic{}}, 0).ListTopics)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestCreatePlanBindsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans := &fakePlans{}
	r := gin.New()
	r.POST("/plans", NewStudyHandler(logger.Nop(), plans).CreatePlan)

	docID, topicID := uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"document_id":%q,"topic_ids":[%q],"due_date":"2025-03-14","pace":"slow"}`, docID, topicID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if plans.got.DocumentID != docID || len(plans.got.TopicIDs) != 1 || plans.got.TopicIDs[0] != topicID ||
		plans.got.DueDate != "2025-03-14" || plans.got.Pace != "slow" {
		t.Fatalf("unexpected input: %+v", plans.got)
	}

	plans.err = fmt.Errorf("pace: %w", pkgerrors.ErrInvalidArgument)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid argument: status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status=%d", rec.Code)
	}
}

func TestSetSessionDoneRequiresFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans := &fakePlans{}
	r := gin.New()
	r.PATCH("/sessions/:id", NewStudyHandler(logger.Nop(), plans).SetSessionDone)
	path := "/sessions/" + uuid.NewString()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest || plans.done != nil {
		t.Fatalf("missing done: status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"done":false}`)))
	if rec.Code != http.StatusOK || plans.done == nil || *plans.done {
		t.Fatalf("done=false: status=%d", rec.Code)
	}
}

func TestSummarize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/summarize", NewAIHandler(logger.Nop(), fakeSummarizer{}).Summarize)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"text":"abc","max_sentences":2}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"summary":"2:abc"`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	r = gin.New()
	r.POST("/summarize", NewAIHandler(logger.Nop(), fakeSummarizer{err: fmt.Errorf("empty: %w", pkgerrors.ErrInvalidArgument)}).Summarize)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"text":""}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty text: status=%d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
