package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/metrics"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

// Backend stores and retrieves file objects. Implementations: minioBackend
// for S3-compatible storage, localBackend for the uploads directory.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Name() string
}

// Model and image extensions accepted for upload.
var (
	modelExtensions = map[string]string{
		".stl": "model/stl",
		".obj": "model/obj",
		".3mf": "application/vnd.ms-package.3dmanufacturing-3dmodel+xml",
	}
	imageExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
	}
)

// Service validates uploads and delegates persistence to a backend.
type Service struct {
	logger       *zap.Logger
	backend      Backend
	maxFileSize  int64
	maxImageSize int64
}

// NewService wires a storage service over the given backend.
func NewService(logger *zap.Logger, backend Backend, maxFileSize, maxImageSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = 50 << 20
	}
	if maxImageSize <= 0 {
		maxImageSize = 10 << 20
	}
	return &Service{
		logger:       logger,
		backend:      backend,
		maxFileSize:  maxFileSize,
		maxImageSize: maxImageSize,
	}
}

// Backend exposes the underlying backend, used by the server to decide
// whether to mount the local uploads directory.
func (s *Service) Backend() Backend { return s.backend }

// Validate checks a filename and size against the upload rules without
// storing anything. kind is "model" or "image".
func (s *Service) Validate(filename string, size int64, kind string) error {
	allowed, maxSize := modelExtensions, s.maxFileSize
	if kind == "image" {
		allowed, maxSize = imageExtensions, s.maxImageSize
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowed[ext]; !ok {
		return apierr.Invalidf("file type %q is not allowed", ext)
	}
	if size <= 0 {
		return apierr.Invalidf("file is empty")
	}
	if size > maxSize {
		return apierr.Invalidf("file exceeds the %d MB limit", maxSize>>20)
	}
	return nil
}

// UploadModel stores a 3D model file under the given folder. The stored
// key is uuid-prefixed so concurrent uploads of the same filename never
// collide.
func (s *Service) UploadModel(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error) {
	return s.upload(ctx, folder, filename, r, size, modelExtensions, s.maxFileSize)
}

// UploadImage stores an image file under the given folder.
func (s *Service) UploadImage(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error) {
	return s.upload(ctx, folder, filename, r, size, imageExtensions, s.maxImageSize)
}

func (s *Service) upload(ctx context.Context, folder, filename string, r io.Reader, size int64, allowed map[string]string, maxSize int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowed[ext]
	if !ok {
		return "", apierr.Invalidf("file type %q is not allowed", ext)
	}
	if size <= 0 {
		return "", apierr.Invalidf("file is empty")
	}
	if size > maxSize {
		return "", apierr.Invalidf("file exceeds the %d MB limit", maxSize>>20)
	}

	key := path.Join(folder, uuid.New().String()+"_"+sanitizeFilename(filename))
	if err := s.backend.Put(ctx, key, io.LimitReader(r, maxSize), size, contentType); err != nil {
		return "", fmt.Errorf("failed to store %q: %w", key, err)
	}

	metrics.FilesUploaded.WithLabelValues(s.backend.Name()).Inc()
	s.logger.Info("file stored",
		zap.String("key", key),
		zap.Int64("size", size),
		zap.String("backend", s.backend.Name()))
	return key, nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	return s.backend.Exists(ctx, key)
}

// Stat returns metadata for a stored object.
func (s *Service) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	return s.backend.Stat(ctx, key)
}

// List returns objects under the given prefix.
func (s *Service) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return s.backend.List(ctx, prefix)
}

// URL returns a link the frontend can fetch the object from. S3 backends
// return a presigned URL, the local backend a path under /uploads.
func (s *Service) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.backend.URL(ctx, key, expiry)
}

// sanitizeFilename strips path separators and shell-hostile characters
// from a client-supplied filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
