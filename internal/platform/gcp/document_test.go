package gcp

import "testing"

func TestProcessorName(t *testing.T) {
	if got := processorName("p", "us", "abc", ""); got != "projects/p/locations/us/processors/abc" {
		t.Fatalf("processorName: got %q", got)
	}
	if got := processorName("p", "eu", "abc", "v2"); got != "projects/p/locations/eu/processors/abc/processorVersions/v2" {
		t.Fatalf("processorName with version: got %q", got)
	}
	if got := processorName("", "us", "abc", ""); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestDocumentOCRConfigFromEnv(t *testing.T) {
	t.Setenv("DOCUMENTAI_LOCATION", "")
	t.Setenv("DOCUMENTAI_PROJECT_ID", "proj")
	t.Setenv("DOCUMENTAI_PROCESSOR_ID", "")
	cfg := DocumentOCRConfigFromEnv()
	if cfg.Location != "us" {
		t.Fatalf("default location: got %q", cfg.Location)
	}
	if cfg.Enabled() {
		t.Fatalf("expected disabled without processor id")
	}
	t.Setenv("DOCUMENTAI_PROCESSOR_ID", "ocr")
	if !DocumentOCRConfigFromEnv().Enabled() {
		t.Fatalf("expected enabled with project and processor")
	}
}
