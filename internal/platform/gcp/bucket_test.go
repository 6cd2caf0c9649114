package gcp

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

func TestBucketConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     BucketConfig
		wantErr string
	}{
		{"gcs ok", BucketConfig{Bucket: "b", Mode: ObjectStorageModeGCS}, ""},
		{"emulator ok", BucketConfig{Bucket: "b", Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://localhost:4443"}, ""},
		{"missing bucket", BucketConfig{Mode: ObjectStorageModeGCS}, "bucket name required"},
		{"emulator without host", BucketConfig{Bucket: "b", Mode: ObjectStorageModeGCSEmulator}, "requires STORAGE_EMULATOR_HOST"},
		{"emulator bad host", BucketConfig{Bucket: "b", Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "localhost"}, "invalid STORAGE_EMULATOR_HOST"},
		{"unknown mode", BucketConfig{Bucket: "b", Mode: "s3"}, "invalid object storage mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBucketStoreEmulatorRoundTrip(t *testing.T) {
	host := strings.TrimSpace(os.Getenv("STUDYPLAN_GCS_EMULATOR_HOST"))
	bucket := strings.TrimSpace(os.Getenv("STUDYPLAN_GCS_EMULATOR_BUCKET"))
	if host == "" || bucket == "" {
		t.Skip("set STUDYPLAN_GCS_EMULATOR_HOST and STUDYPLAN_GCS_EMULATOR_BUCKET to run emulator tests")
	}
	t.Setenv("STORAGE_EMULATOR_HOST", host)

	ctx := context.Background()
	store, err := NewBucketStore(ctx, logger.Nop(), BucketConfig{Bucket: bucket, Mode: ObjectStorageModeGCSEmulator, EmulatorHost: host})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "it/a.txt", strings.NewReader("alpha"), "text/plain"))
	rc, err := store.Open(ctx, "it/a.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(body))
	require.NoError(t, store.Delete(ctx, "it/a.txt"))
}
