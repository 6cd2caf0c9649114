package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// LocalStore writes blobs under a root directory on disk.
type LocalStore struct {
	log  *logger.Logger
	root string
}

func NewLocalStore(root string, log *logger.Logger) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("local store root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create %q: %w", abs, err)
	}
	return &LocalStore{log: log.With("service", "LocalStore"), root: abs}, nil
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir for %q: %w", key, err)
	}

	// Write to a sibling temp file so readers never see a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return fmt.Errorf("temp file for %q: %w", key, err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		cleanup()
		return fmt.Errorf("rename %q: %w", key, err)
	}
	s.log.Debug("blob stored", "key", key)
	return nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %q: %w", key, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(strings.TrimSpace(key)))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("empty blob key: %w", pkgerrors.ErrInvalidArgument)
	}
	return filepath.Join(s.root, clean), nil
}
