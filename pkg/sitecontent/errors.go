package sitecontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrArticleNotFound indicates an article was not found
	ErrArticleNotFound = errors.New("article not found")

	// ErrTestimonialNotFound indicates a testimonial was not found
	ErrTestimonialNotFound = errors.New("testimonial not found")

	// ErrAssetNotFound indicates an asset was not found in blob storage
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidInput indicates a malformed or missing request field
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyUpload indicates an upload with no bytes
	ErrEmptyUpload = errors.New("empty upload")

	// ErrUploadTooLarge indicates an upload exceeding the size limit
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrUnsupportedMediaType indicates an upload with a MIME type outside the allowed set
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidFilename indicates an upload filename containing a path traversal sequence
	ErrInvalidFilename = errors.New("invalid filename")
)

// RecordError represents an error related to a content record operation
type RecordError struct {
	RecordID uuid.UUID
	Op       string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record operation %s failed for record %s: %v", e.Op, e.RecordID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to asset storage operations
type AssetError struct {
	Key string
	Op  string
	Err error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
