package sitecontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadBytes is the size ceiling for a single asset upload.
const MaxUploadBytes = 10 << 20 // 10 MiB

// Asset subfolder constants.
const (
	SubFolderBlog         = "blog"
	SubFolderTestimonials = "testimonials"
)

var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// AssetStoreConfig options for the asset store
type AssetStoreConfig struct {
	URLPrefix string       // prefix of returned asset URLs, default "/uploads"
	Logger    *slog.Logger // default slog.Default()
}

// AssetStore persists uploaded media through a BlobStore, addressing files by
// a generated UUID so asset identity never depends on the client filename.
// Record lifecycle and asset lifecycle stay decoupled: records reference
// assets only by the URL string this store returns.
type AssetStore struct {
	blobs     BlobStore
	urlPrefix string
	logger    *slog.Logger
}

// NewAssetStore creates an asset store on top of a blob storage backend
func NewAssetStore(blobs BlobStore, cfg AssetStoreConfig) *AssetStore {
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/uploads"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AssetStore{
		blobs:     blobs,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
		logger:    cfg.Logger,
	}
}

// ValidateUpload runs the validation gate: empty payloads, oversized payloads,
// disallowed MIME types and traversal in the client filename are all rejected
// here, before any bytes reach the blob store.
func ValidateUpload(up Upload) error {
	if up.Size <= 0 {
		return ErrEmptyUpload
	}
	if up.Size > MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrUploadTooLarge, up.Size, MaxUploadBytes)
	}
	if _, ok := allowedMediaTypes[up.ContentType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, up.ContentType)
	}
	if strings.Contains(up.Filename, "..") {
		return fmt.Errorf("%w: %s", ErrInvalidFilename, up.Filename)
	}
	return nil
}

// Store validates the upload and persists it under subFolder, returning the
// stable relative URL of the stored asset. The generated key keeps only the
// extension of the original filename.
func (s *AssetStore) Store(ctx context.Context, up Upload, subFolder string) (string, error) {
	if err := ValidateUpload(up); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(up.Filename))
	key := fmt.Sprintf("%s/%s%s", subFolder, uuid.New(), ext)

	if err := s.blobs.Upload(ctx, key, up.Reader); err != nil {
		return "", &AssetError{Key: key, Op: "store", Err: err}
	}

	return s.urlPrefix + "/" + key, nil
}

// Delete removes the asset behind the given URL. Deletion is idempotent and
// best-effort: a missing asset or a failing backend is logged, never surfaced,
// since an orphaned file is a lesser defect than a failed record operation.
func (s *AssetStore) Delete(ctx context.Context, assetURL string) {
	if assetURL == "" {
		return
	}

	key := s.keyFromURL(assetURL)
	if err := s.blobs.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			s.logger.Info("asset already deleted", "key", key)
			return
		}
		s.logger.Warn("failed to delete asset", "key", key, "error", err)
	}
}

// Exists reports whether an asset is stored behind the given URL
func (s *AssetStore) Exists(ctx context.Context, assetURL string) (bool, error) {
	if assetURL == "" {
		return false, nil
	}
	return s.blobs.Exists(ctx, s.keyFromURL(assetURL))
}

func (s *AssetStore) keyFromURL(assetURL string) string {
	key := strings.TrimPrefix(assetURL, s.urlPrefix+"/")
	return strings.TrimPrefix(key, "/")
}
