package gcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// DocumentOCRConfig names the Document AI processor used for OCR of
// scanned or image-only uploads.
type DocumentOCRConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
}

// DocumentOCRConfigFromEnv reads DOCUMENTAI_* variables. Location
// defaults to "us".
func DocumentOCRConfigFromEnv() DocumentOCRConfig {
	location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
	if location == "" {
		location = "us"
	}
	return DocumentOCRConfig{
		ProjectID:        strings.TrimSpace(os.Getenv("DOCUMENTAI_PROJECT_ID")),
		Location:         location,
		ProcessorID:      strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID")),
		ProcessorVersion: strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_VERSION")),
	}
}

func (c DocumentOCRConfig) Enabled() bool {
	return processorName(c.ProjectID, c.Location, c.ProcessorID, c.ProcessorVersion) != ""
}

type DocumentOCR struct {
	log    *logger.Logger
	client *documentai.DocumentProcessorClient
	name   string
}

func NewDocumentOCR(ctx context.Context, log *logger.Logger, cfg DocumentOCRConfig) (*DocumentOCR, error) {
	name := processorName(cfg.ProjectID, cfg.Location, cfg.ProcessorID, cfg.ProcessorVersion)
	if name == "" {
		return nil, errors.New("documentai processor not configured")
	}
	serviceLog := log.With("service", "DocumentOCR")

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	serviceLog.Info("Document AI initialized", "endpoint", endpoint)
	return &DocumentOCR{log: serviceLog, client: client, name: name}, nil
}

// ExtractText runs the processor over raw bytes and returns the full text.
func (d *DocumentOCR) ExtractText(ctx context.Context, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if mimeType == "" {
		mimeType = "application/pdf"
	}
	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{Content: data, MimeType: mimeType},
		},
	})
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.Document == nil {
		return "", nil
	}
	return resp.Document.GetText(), nil
}

func (d *DocumentOCR) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func processorName(project, location, processorID, version string) string {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	processorID = strings.TrimSpace(processorID)
	version = strings.TrimSpace(version)

	if project == "" || location == "" || processorID == "" {
		return ""
	}
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
	if version != "" {
		return base + "/processorVersions/" + version
	}
	return base
}
