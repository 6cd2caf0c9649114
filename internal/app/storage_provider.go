package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/platform/gcp"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/storage"
)

const storageModeLocal = "local"

var newBucketStore = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (storage.BlobStore, func() error, error) {
	b, err := gcp.NewBucketStore(ctx, log, cfg)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBlobStore picks where raw uploads live. The returned closer is
// never nil.
func resolveBlobStore(ctx context.Context, log *logger.Logger, cfg Config) (storage.BlobStore, func() error, error) {
	mode := strings.TrimSpace(cfg.StorageMode)
	if mode == "" {
		mode = storageModeLocal
	}
	noop := func() error { return nil }

	if mode == storageModeLocal {
		log.Info("Selecting object storage provider", "mode", mode, "upload_dir", cfg.UploadDir)
		store, err := storage.NewLocalStore(cfg.UploadDir, log)
		if err != nil {
			return nil, noop, &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorConnectFailed,
				Mode:  mode,
				Cause: err,
			}
		}
		return store, noop, nil
	}

	bucketCfg := gcp.BucketConfig{
		Bucket:       strings.TrimSpace(cfg.GCSBucket),
		Mode:         gcp.ObjectStorageMode(mode),
		EmulatorHost: strings.TrimSpace(cfg.StorageEmulatorHost),
	}
	if err := checkBucketConfig(bucketCfg); err != nil {
		log.Error(
			"Object storage provider selection failed",
			"mode", mode,
			"emulator_host", bucketCfg.EmulatorHost,
			"error", err,
		)
		return nil, noop, err
	}

	log.Info(
		"Selecting object storage provider",
		"mode", mode,
		"bucket", bucketCfg.Bucket,
		"emulator_host", bucketCfg.EmulatorHost,
	)
	store, closer, err := newBucketStore(ctx, log, bucketCfg)
	if err != nil {
		wrapped := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorConnectFailed,
			Mode:         mode,
			EmulatorHost: bucketCfg.EmulatorHost,
			Cause:        err,
		}
		log.Error("Object storage provider bootstrap failed", "mode", mode, "error", wrapped)
		return nil, noop, wrapped
	}
	return store, closer, nil
}

func checkBucketConfig(cfg gcp.BucketConfig) error {
	fail := func(code StorageProviderBootstrapErrorCode, cause error) error {
		return &StorageProviderBootstrapError{
			Code:         code,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        cause,
		}
	}
	switch cfg.Mode {
	case gcp.ObjectStorageModeGCS, gcp.ObjectStorageModeGCSEmulator:
	default:
		return fail(StorageProviderBootstrapErrorInvalidMode, fmt.Errorf("unsupported object storage mode %q", cfg.Mode))
	}
	if cfg.Bucket == "" {
		return fail(StorageProviderBootstrapErrorMissingBucket, errors.New("GCS_BUCKET is required"))
	}
	if cfg.Mode != gcp.ObjectStorageModeGCSEmulator {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return fail(StorageProviderBootstrapErrorMissingEmulatorHost, errors.New("STORAGE_EMULATOR_HOST is required"))
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fail(StorageProviderBootstrapErrorInvalidEmulatorHost, fmt.Errorf("expected absolute URL like http://localhost:4443"))
	}
	return nil
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
