package file

import "errors"

var (
	ErrNilFileHeader    = errors.New("file header is nil")
	ErrEmptyUpload      = errors.New("upload body is empty")
	ErrFileTooLarge     = errors.New("file size exceeds maximum allowed size")
	ErrNotImage         = errors.New("file is not an image")
	ErrFailedToOpenFile = errors.New("failed to open file")
	ErrFailedToReadFile = errors.New("failed to read file")

	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")

	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidKey         = errors.New("invalid object key")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
