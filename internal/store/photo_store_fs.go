package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sevenoy/GeminiMeds/internal/logger"
)

type fsPhotoStore struct {
	root   string
	logger *logger.Logger
}

// NewFSPhotoStore keeps photos as files under root.
func NewFSPhotoStore(root string, log *logger.Logger) (PhotoStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}

	log.Info().Str("dir", root).Msg("using filesystem photo store")
	return &fsPhotoStore{root: root, logger: log}, nil
}

func (s *fsPhotoStore) Put(ctx context.Context, ownerID, hash string, data []byte) (string, error) {
	key := photoKey(ownerID, hash)
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}

	// readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit photo: %w", err)
	}

	return key, nil
}

func (s *fsPhotoStore) Get(ctx context.Context, ownerID, hash string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(photoKey(ownerID, hash))))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPhotoNotFound
	}
	return data, err
}
