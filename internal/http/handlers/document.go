package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

const DefaultMaxUploadBytes int64 = 25 << 20

type DocumentHandler struct {
	log            *logger.Logger
	documents      services.DocumentService
	maxUploadBytes int64
}

func NewDocumentHandler(log *logger.Logger, documents services.DocumentService, maxUploadBytes int64) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &DocumentHandler{
		log:            log.With("handler", "DocumentHandler"),
		documents:      documents,
		maxUploadBytes: maxUploadBytes,
	}
}

// POST /api/documents/upload
// multipart: file
func (h *DocumentHandler) Upload(c *gin.Context) {
	// Multipart framing needs a little headroom over the file limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("file exceeds %d bytes", h.maxUploadBytes))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("no file uploaded (field 'file')"))
		return
	}
	if fh.Size > h.maxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("file exceeds %d bytes", h.maxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}

	out, err := h.documents.Upload(c.Request.Context(), services.UploadInput{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		h.log.Error("upload failed", "name", fh.Filename, "error", err.Error())
		response.RespondServiceError(c, err, "upload_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/documents/mine
func (h *DocumentHandler) ListMine(c *gin.Context) {
	docs, err := h.documents.ListMine(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err, "load_documents_failed")
		return
	}
	response.RespondOK(c, docs)
}

// GET /api/topics/by-document/:docId
func (h *DocumentHandler) ListTopics(c *gin.Context) {
	docID, ok := pathUUID(c, "docId")
	if !ok {
		return
	}
	topics, err := h.documents.Topics(c.Request.Context(), docID)
	if err != nil {
		response.RespondServiceError(c, err, "load_topics_failed")
		return
	}
	response.RespondOK(c, topics)
}

// GET /api/videos/by-document/:id
func (h *DocumentHandler) ListVideos(c *gin.Context) {
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.documents.Videos(c.Request.Context(), docID)
	if err != nil {
		response.RespondServiceError(c, err, "load_recommendations_failed")
		return
	}
	response.RespondOK(c, items)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
