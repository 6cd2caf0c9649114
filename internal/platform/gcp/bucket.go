package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type BucketConfig struct {
	Bucket       string
	Mode         ObjectStorageMode
	EmulatorHost string
}

// Validate checks the mode and, for the emulator, the host URL.
func (c BucketConfig) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("gcs bucket name required")
	}
	switch c.Mode {
	case ObjectStorageModeGCS:
		return nil
	case ObjectStorageModeGCSEmulator:
		host := strings.TrimSpace(c.EmulatorHost)
		if host == "" {
			return fmt.Errorf("mode %q requires STORAGE_EMULATOR_HOST", c.Mode)
		}
		u, err := url.Parse(host)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://localhost:4443", host)
		}
		return nil
	default:
		return fmt.Errorf("invalid object storage mode %q (allowed: %q, %q)", c.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
}

// BucketStore keeps uploaded raw files in a single GCS bucket.
type BucketStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewBucketStore(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*BucketStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate bucket config: %w", err)
	}
	serviceLog := log.With("service", "BucketStore")

	var opts []option.ClientOption
	if cfg.Mode == ObjectStorageModeGCSEmulator {
		endpoint := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
		_ = os.Setenv("STORAGE_EMULATOR_HOST", endpoint)
		opts = append(opts, option.WithoutAuthentication(), option.WithEndpoint(endpoint+"/storage/v1/"))
	} else {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	serviceLog.Info("object storage initialized", "mode", cfg.Mode, "bucket", cfg.Bucket)
	return &BucketStore{log: serviceLog, client: client, bucket: cfg.Bucket}, nil
}

func (b *BucketStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gcs object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs writer %q: %w", key, err)
	}
	return nil
}

func (b *BucketStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gcs object %q: %w", key, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open gcs object %q: %w", key, err)
	}
	return rc, nil
}

func (b *BucketStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := b.client.Bucket(b.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object %q: %w", key, err)
	}
	return nil
}

func (b *BucketStore) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
