package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/platform/gcp"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/storage"
)

func TestResolveBlobStoreBootstrapErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", Config{StorageMode: "s3", GCSBucket: "b"}, StorageProviderBootstrapErrorInvalidMode},
		{"missing bucket", Config{StorageMode: "gcs"}, StorageProviderBootstrapErrorMissingBucket},
		{"missing emulator host", Config{StorageMode: "gcs_emulator", GCSBucket: "b"}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", Config{StorageMode: "gcs_emulator", GCSBucket: "b", StorageEmulatorHost: "fake-gcs:4443"}, StorageProviderBootstrapErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, closer, err := resolveBlobStore(context.Background(), logger.Nop(), tc.cfg)
			if store != nil || closer == nil {
				t.Fatalf("expected nil store and non-nil closer")
			}
			if got := storageProviderBootstrapErrorCode(err); got != tc.want {
				t.Fatalf("code: want=%q got=%q (err=%v)", tc.want, got, err)
			}
		})
	}
}

func TestResolveBlobStoreConnectFailed(t *testing.T) {
	orig := newBucketStore
	defer func() { newBucketStore = orig }()
	newBucketStore = func(context.Context, *logger.Logger, gcp.BucketConfig) (storage.BlobStore, func() error, error) {
		return nil, nil, errors.New("dial tcp: connection refused")
	}

	_, _, err := resolveBlobStore(context.Background(), logger.Nop(), Config{
		StorageMode:         "gcs_emulator",
		GCSBucket:           "uploads",
		StorageEmulatorHost: "http://localhost:4443",
	})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("expected connect_failed, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestResolveBlobStoreUsesBucket(t *testing.T) {
	orig := newBucketStore
	defer func() { newBucketStore = orig }()
	var gotCfg gcp.BucketConfig
	closed := false
	newBucketStore = func(_ context.Context, _ *logger.Logger, cfg gcp.BucketConfig) (storage.BlobStore, func() error, error) {
		gotCfg = cfg
		return &storage.LocalStore{}, func() error { closed = true; return nil }, nil
	}

	_, closer, err := resolveBlobStore(context.Background(), logger.Nop(), Config{StorageMode: "gcs", GCSBucket: " uploads "})
	if err != nil {
		t.Fatalf("resolveBlobStore: %v", err)
	}
	if gotCfg.Bucket != "uploads" || gotCfg.Mode != gcp.ObjectStorageModeGCS {
		t.Fatalf("unexpected bucket config: %+v", gotCfg)
	}
	_ = closer()
	if !closed {
		t.Fatalf("closer not forwarded")
	}
}

func TestResolveBlobStoreLocal(t *testing.T) {
	dir := t.TempDir()
	store, _, err := resolveBlobStore(context.Background(), logger.Nop(), Config{StorageMode: "local", UploadDir: dir})
	if err != nil {
		t.Fatalf("resolveBlobStore: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, "uploads/a.txt", strings.NewReader("hi"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := store.Open(ctx, "uploads/a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "hi" {
		t.Fatalf("content: %q", b)
	}
}
