package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
)

type localBackend struct {
	root string
}

// NewLocalBackend stores objects under root on the local filesystem.
// Used when S3 is not configured; the server exposes root at /uploads.
func NewLocalBackend(root string) (Backend, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %q: %w", root, err)
	}
	return &localBackend{root: root}, nil
}

func (b *localBackend) Name() string { return "local" }

// resolve maps a key onto the root dir and rejects traversal outside it.
func (b *localBackend) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" {
		return "", apierr.Invalidf("empty object key")
	}
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

func (b *localBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	target, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	return f.Close()
}

func (b *localBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if os.IsNotExist(err) {
		return nil, apierr.NotFoundf("file %q not found", key)
	}
	return f, err
}

func (b *localBackend) Delete(_ context.Context, key string) error {
	target, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *localBackend) Exists(_ context.Context, key string) (bool, error) {
	target, err := b.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *localBackend) Stat(_ context.Context, key string) (*ObjectInfo, error) {
	target, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierr.NotFoundf("file %q not found", key)
		}
		return nil, err
	}
	return &ObjectInfo{
		Key:          key,
		Size:         info.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: info.ModTime(),
	}, nil
}

func (b *localBackend) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			ContentType:  mime.TypeByExtension(filepath.Ext(key)),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

func (b *localBackend) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, err := b.resolve(key); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}
