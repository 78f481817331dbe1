package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "lockbox/backend/common/errors"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// BlobStore is where file bytes live. The folder directory hands it keys it
// derived itself; bytes pass through unmodified (no encryption).
type BlobStore interface {
	Put(key string, r io.Reader) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// Blobs is the process-wide store. main wires a LocalBlobStore; tests swap in
// a MemoryBlobStore.
var Blobs BlobStore

// StorageKey derives the blob key for one uploaded file. The key depends only
// on owner, folder, upload time and the original extension, so re-uploads of
// same-named files never collide.
func StorageKey(ownerID, folderID int64, uploadedAt time.Time, originalName string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%d/%d/%d.%s", ownerID, folderID, uploadedAt.UnixMilli(), ext)
}

// LocalBlobStore keeps blobs under a root directory, one file per key.
type LocalBlobStore struct {
	Root string
}

func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", root, err)
	}
	return &LocalBlobStore{Root: root}, nil
}

func (s *LocalBlobStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

func (s *LocalBlobStore) Put(key string, r io.Reader) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (s *LocalBlobStore) Get(key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

func (s *LocalBlobStore) Delete(key string) error {
	return os.Remove(s.path(key))
}

// MemoryBlobStore backs tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryBlobStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (s *MemoryBlobStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

const thumbnailMaxSize = 300

var thumbnails = struct {
	mu    sync.RWMutex
	cache map[string][]byte
}{cache: make(map[string][]byte)}

// Thumbnail returns a downscaled JPEG preview for an image blob. Results are
// cached by storage key for the lifetime of the process.
func Thumbnail(key string) ([]byte, error) {
	thumbnails.mu.RLock()
	cached, ok := thumbnails.cache[key]
	thumbnails.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := Blobs.Get(key)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to read stored file")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidParam, "file is not a decodable image")
	}

	thumb := resize.Thumbnail(thumbnailMaxSize, thumbnailMaxSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer, "failed to encode thumbnail")
	}

	encoded := buf.Bytes()
	thumbnails.mu.Lock()
	thumbnails.cache[key] = encoded
	thumbnails.mu.Unlock()
	return encoded, nil
}
