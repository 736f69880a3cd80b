package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

var _ Storage = (*LocalStorage)(nil)

// LocalStorage stores files under a root directory on the local filesystem.
// Intended for development and for single-node deployments of
// core/ctxstore's file-backed snapshot store.
type LocalStorage struct {
	root        string
	permissions os.FileMode
	createDirs  bool
	baseURL     string
}

// LocalOption configures a LocalStorage.
type LocalOption func(*LocalStorage)

// WithPermissions sets the file mode used for created files and
// directories. Defaults to 0644 for files, 0755 for directories.
func WithPermissions(mode os.FileMode) LocalOption {
	return func(s *LocalStorage) { s.permissions = mode }
}

// WithCreateDirs controls whether Save creates missing parent directories.
// Defaults to true.
func WithCreateDirs(create bool) LocalOption {
	return func(s *LocalStorage) { s.createDirs = create }
}

// WithBaseURL sets the prefix URL returned by LocalStorage.URL.
func WithBaseURL(baseURL string) LocalOption {
	return func(s *LocalStorage) { s.baseURL = baseURL }
}

// NewLocalStorage returns a Storage backed by the local filesystem rooted
// at root.
func NewLocalStorage(root string, opts ...LocalOption) *LocalStorage {
	s := &LocalStorage{
		root:        root,
		permissions: 0644,
		createDirs:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStorage) resolve(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return filepath.Join(s.root, path), nil
}

// Save writes fh's content to path under the storage root.
func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if s.createDirs {
		dirMode := os.FileMode(0755)
		if err := os.MkdirAll(filepath.Dir(full), dirMode); err != nil {
			return nil, fmt.Errorf("storage: creating directory: %w", err)
		}
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(full, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.permissions)
	if err != nil {
		return nil, fmt.Errorf("storage: creating file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("storage: writing file: %w", err)
	}

	mimeType, err := GetMIMEType(fh)
	if err != nil {
		mimeType = "application/octet-stream"
	}

	return &File{
		Filename:     SanitizeFilename(fh.Filename),
		Size:         fh.Size,
		MIMEType:     mimeType,
		Extension:    GetExtension(fh),
		AbsolutePath: full,
		RelativePath: path,
	}, nil
}

// Delete removes the file at path.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return os.Remove(full)
}

// DeleteDir recursively removes everything under dir.
func (s *LocalStorage) DeleteDir(ctx context.Context, dir string) error {
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}
	return os.RemoveAll(full)
}

// Exists reports whether path exists under the storage root.
func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	full, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// List returns the immediate entries of dir.
func (s *LocalStorage) List(ctx context.Context, dir string) ([]Entry, error) {
	full, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		info, err := item.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:  item.Name(),
			Path:  filepath.Join(dir, item.Name()),
			IsDir: item.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// URL returns s.baseURL joined with path, or a bare path if no base URL was
// configured.
func (s *LocalStorage) URL(path string) string {
	path = strings.TrimPrefix(path, "/")
	if s.baseURL == "" {
		return path
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + path
}
