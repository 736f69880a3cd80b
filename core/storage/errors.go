package storage

import "errors"

var (
	ErrNilFileHeader      = errors.New("storage: file header is nil")
	ErrInvalidPath        = errors.New("storage: invalid path")
	ErrFailedToOpenFile   = errors.New("storage: failed to open file")
	ErrPaginatorNil       = errors.New("storage: paginator factory returned nil")
	ErrDirectoryNotFound  = errors.New("storage: directory not found")
	ErrFileNotFound       = errors.New("storage: file not found")
	ErrBucketNotFound     = errors.New("storage: bucket not found")
	ErrAccessDenied       = errors.New("storage: access denied")
	ErrRequestTimeout     = errors.New("storage: request timeout")
	ErrServiceUnavailable = errors.New("storage: service unavailable")
	ErrInvalidObjectState = errors.New("storage: invalid object state")
	ErrOperationTimeout   = errors.New("storage: operation timeout")
	ErrOperationCanceled  = errors.New("storage: operation canceled")
)
