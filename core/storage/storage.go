package storage

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
)

// File describes a successfully stored file.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string // set by LocalStorage; empty for remote backends
	RelativePath string
}

// Entry describes one file or directory returned by List.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is implemented by every storage backend: local filesystem and
// remote object stores alike.
type Storage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	Delete(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, dir string) error
	Exists(ctx context.Context, path string) bool
	List(ctx context.Context, dir string) ([]Entry, error)
	URL(path string) string
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips directory components and replaces characters
// outside a conservative safe set, preventing path traversal and
// header-injection via Content-Disposition.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return name
}

// GetExtension returns fh's filename extension, lowercased and without the
// leading dot.
func GetExtension(fh *multipart.FileHeader) string {
	ext := filepath.Ext(fh.Filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// GetMIMEType determines fh's content type from its Content-Type header,
// falling back to sniffing by extension.
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct, nil
	}
	if mt := mimeTypeByExtension(GetExtension(fh)); mt != "" {
		return mt, nil
	}
	return "application/octet-stream", nil
}

func mimeTypeByExtension(ext string) string {
	switch ext {
	case "json":
		return "application/json"
	case "txt":
		return "text/plain"
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}
