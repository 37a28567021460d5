package sitecontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	assets     *AssetStore
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithAssetStore sets the asset store for the service
func WithAssetStore(assets *AssetStore) Option {
	return func(s *service) {
		s.assets = assets
	}
}

// WithBlobStore wraps a blob storage backend in a default asset store
func WithBlobStore(blobs BlobStore) Option {
	return func(s *service) {
		s.assets = NewAssetStore(blobs, AssetStoreConfig{})
	}
}

// WithNotifier sets the contact notifier for the service
func WithNotifier(notifier Notifier) Option {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		notifier: NewNoopNotifier(),
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.assets == nil {
		return nil, fmt.Errorf("asset store is required")
	}

	return s, nil
}

// Article operations

func (s *service) SaveArticle(ctx context.Context, req SaveArticleRequest) (*Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var article *Article
	isNew := req.ID == uuid.Nil
	if isNew {
		article = &Article{
			ID:        uuid.New(),
			CreatedAt: now,
		}
	} else {
		existing, err := s.repository.GetArticle(ctx, req.ID)
		if err != nil {
			return nil, &RecordError{RecordID: req.ID, Op: "save", Err: err}
		}
		article = existing
	}

	article.Title = req.Title
	article.Content = req.Content
	article.SourceName = req.SourceName
	article.ExternalLink = req.ExternalLink
	if req.PublishedDate != nil {
		article.PublishedDate = req.PublishedDate
	}

	ApplyPublishIntent(article, req.Published, req.Action, now)

	if req.RemoveImage && article.ImageURL != "" {
		s.assets.Delete(ctx, article.ImageURL)
		article.ImageURL = ""
	}

	if req.Image != nil {
		imageURL, err := s.assets.Store(ctx, *req.Image, SubFolderBlog)
		if err != nil {
			return nil, err
		}
		// Old asset goes only after the new one is confirmed stored
		if article.ImageURL != "" {
			s.assets.Delete(ctx, article.ImageURL)
		}
		article.ImageURL = imageURL
	}

	article.UpdatedAt = now

	if isNew {
		if err := s.repository.CreateArticle(ctx, article); err != nil {
			return nil, &RecordError{RecordID: article.ID, Op: "create", Err: err}
		}
	} else {
		if err := s.repository.UpdateArticle(ctx, article); err != nil {
			return nil, &RecordError{RecordID: article.ID, Op: "update", Err: err}
		}
	}

	return article, nil
}

func (s *service) GetArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.repository.GetArticle(ctx, id)
}

// GetPublishedArticle returns ErrArticleNotFound for both a missing record and
// an existing draft, so callers cannot enumerate unpublished content.
func (s *service) GetPublishedArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.Published {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

func (s *service) ListArticles(ctx context.Context, page, size int) (*Page[*Article], error) {
	return s.pageArticles(ctx, ArticleFilter{
		Publish: PublishAny,
		SortBy:  ArticleSortCreatedAtDesc,
	}, page, size)
}

func (s *service) ListPublishedArticles(ctx context.Context, page, size int) (*Page[*Article], error) {
	return s.pageArticles(ctx, ArticleFilter{
		Publish: PublishedOnly,
		SortBy:  ArticleSortPublishedDateDesc,
	}, page, size)
}

func (s *service) ListDraftArticles(ctx context.Context, page, size int) (*Page[*Article], error) {
	return s.pageArticles(ctx, ArticleFilter{
		Publish: DraftsOnly,
		SortBy:  ArticleSortCreatedAtDesc,
	}, page, size)
}

func (s *service) ListLatestArticles(ctx context.Context, limit int) ([]*Article, error) {
	if limit < 1 {
		limit = 1
	}
	return s.repository.ListArticles(ctx, ArticleFilter{
		Publish: PublishAny,
		SortBy:  ArticleSortCreatedAtDesc,
		Limit:   limit,
	})
}

func (s *service) SearchPublishedArticles(ctx context.Context, query string, page, size int) (*Page[*Article], error) {
	return s.pageArticles(ctx, ArticleFilter{
		Publish: PublishedOnly,
		Query:   query,
		SortBy:  ArticleSortPublishedDateDesc,
	}, page, size)
}

func (s *service) pageArticles(ctx context.Context, filter ArticleFilter, page, size int) (*Page[*Article], error) {
	page, size = clampPage(page, size)

	total, err := s.repository.CountArticles(ctx, filter)
	if err != nil {
		return nil, err
	}

	filter.Limit = size
	filter.Offset = page * size
	items, err := s.repository.ListArticles(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page[*Article]{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}, nil
}

func (s *service) TogglePublishArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return nil, &RecordError{RecordID: id, Op: "toggle_publish", Err: err}
	}

	now := s.now().UTC()
	FlipPublish(article, now)
	article.UpdatedAt = now

	if err := s.repository.UpdateArticle(ctx, article); err != nil {
		return nil, &RecordError{RecordID: id, Op: "toggle_publish", Err: err}
	}
	return article, nil
}

func (s *service) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return &RecordError{RecordID: id, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteArticle(ctx, id); err != nil {
		return &RecordError{RecordID: id, Op: "delete", Err: err}
	}

	// Best-effort asset cleanup; never fails the record deletion
	if article.ImageURL != "" {
		s.assets.Delete(ctx, article.ImageURL)
	}
	return nil
}

func (s *service) DeleteArticles(ctx context.Context, ids []uuid.UUID) (int, error) {
	count := 0
	for _, id := range ids {
		if err := s.DeleteArticle(ctx, id); err != nil {
			if errors.Is(err, ErrArticleNotFound) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *service) ArticleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repository.GetArticle(ctx, id)
	if errors.Is(err, ErrArticleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) CountArticles(ctx context.Context) (int64, error) {
	return s.repository.CountArticles(ctx, ArticleFilter{Publish: PublishAny})
}

func (s *service) CountPublishedArticles(ctx context.Context) (int64, error) {
	return s.repository.CountArticles(ctx, ArticleFilter{Publish: PublishedOnly})
}

func (s *service) CountDraftArticles(ctx context.Context) (int64, error) {
	return s.repository.CountArticles(ctx, ArticleFilter{Publish: DraftsOnly})
}

func (s *service) CountRecentArticles(ctx context.Context, days int) (int64, error) {
	since := s.now().UTC().AddDate(0, 0, -days)
	return s.repository.CountArticles(ctx, ArticleFilter{
		Publish:      PublishAny,
		CreatedAfter: &since,
	})
}

// Testimonial operations

func (s *service) SaveTestimonial(ctx context.Context, req SaveTestimonialRequest) (*Testimonial, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var testimonial *Testimonial
	isNew := req.ID == uuid.Nil
	if isNew {
		testimonial = &Testimonial{
			ID:        uuid.New(),
			CreatedAt: now,
		}
	} else {
		existing, err := s.repository.GetTestimonial(ctx, req.ID)
		if err != nil {
			return nil, &RecordError{RecordID: req.ID, Op: "save", Err: err}
		}
		testimonial = existing
	}

	testimonial.Quote = req.Quote
	testimonial.SourceName = req.SourceName
	testimonial.SourceRole = req.SourceRole
	testimonial.ExternalLink = req.ExternalLink
	if req.DisplayOrder > 0 {
		testimonial.DisplayOrder = req.DisplayOrder
	}
	if req.PublishedDate != nil {
		testimonial.PublishedDate = req.PublishedDate
	}

	ApplyPublishIntent(testimonial, req.Published, req.Action, now)

	if req.RemoveLogo && testimonial.LogoURL != "" {
		s.assets.Delete(ctx, testimonial.LogoURL)
		testimonial.LogoURL = ""
	}

	if req.Logo != nil {
		logoURL, err := s.assets.Store(ctx, *req.Logo, SubFolderTestimonials)
		if err != nil {
			return nil, err
		}
		if testimonial.LogoURL != "" {
			s.assets.Delete(ctx, testimonial.LogoURL)
		}
		testimonial.LogoURL = logoURL
	}

	testimonial.UpdatedAt = now

	if isNew {
		// The repository appends the record when DisplayOrder is zero
		if err := s.repository.CreateTestimonial(ctx, testimonial); err != nil {
			return nil, &RecordError{RecordID: testimonial.ID, Op: "create", Err: err}
		}
	} else {
		if err := s.repository.UpdateTestimonial(ctx, testimonial); err != nil {
			return nil, &RecordError{RecordID: testimonial.ID, Op: "update", Err: err}
		}
	}

	return testimonial, nil
}

func (s *service) GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	return s.repository.GetTestimonial(ctx, id)
}

func (s *service) GetPublishedTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	testimonial, err := s.repository.GetTestimonial(ctx, id)
	if err != nil {
		return nil, err
	}
	if !testimonial.Published {
		return nil, ErrTestimonialNotFound
	}
	return testimonial, nil
}

func (s *service) ListTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error) {
	return s.pageTestimonials(ctx, TestimonialFilter{
		Publish: PublishAny,
		SortBy:  TestimonialSortPublishedDateDesc,
	}, page, size)
}

func (s *service) ListPublishedTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error) {
	return s.pageTestimonials(ctx, TestimonialFilter{
		Publish: PublishedOnly,
		SortBy:  TestimonialSortDisplayOrderAsc,
	}, page, size)
}

func (s *service) ListDraftTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error) {
	return s.pageTestimonials(ctx, TestimonialFilter{
		Publish: DraftsOnly,
		SortBy:  TestimonialSortPublishedDateDesc,
	}, page, size)
}

func (s *service) ListLatestTestimonials(ctx context.Context, limit int) ([]*Testimonial, error) {
	if limit < 1 {
		limit = 1
	}
	return s.repository.ListTestimonials(ctx, TestimonialFilter{
		Publish: PublishAny,
		SortBy:  TestimonialSortPublishedDateDesc,
		Limit:   limit,
	})
}

func (s *service) pageTestimonials(ctx context.Context, filter TestimonialFilter, page, size int) (*Page[*Testimonial], error) {
	page, size = clampPage(page, size)

	total, err := s.repository.CountTestimonials(ctx, filter)
	if err != nil {
		return nil, err
	}

	filter.Limit = size
	filter.Offset = page * size
	items, err := s.repository.ListTestimonials(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page[*Testimonial]{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}, nil
}

func (s *service) TogglePublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	testimonial, err := s.repository.GetTestimonial(ctx, id)
	if err != nil {
		return nil, &RecordError{RecordID: id, Op: "toggle_publish", Err: err}
	}

	now := s.now().UTC()
	FlipPublish(testimonial, now)
	testimonial.UpdatedAt = now

	if err := s.repository.UpdateTestimonial(ctx, testimonial); err != nil {
		return nil, &RecordError{RecordID: id, Op: "toggle_publish", Err: err}
	}
	return testimonial, nil
}

func (s *service) PublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	return s.setTestimonialPublished(ctx, id, true)
}

func (s *service) UnpublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	return s.setTestimonialPublished(ctx, id, false)
}

func (s *service) setTestimonialPublished(ctx context.Context, id uuid.UUID, published bool) (*Testimonial, error) {
	testimonial, err := s.repository.GetTestimonial(ctx, id)
	if err != nil {
		return nil, &RecordError{RecordID: id, Op: "set_published", Err: err}
	}

	now := s.now().UTC()
	ApplyPublishIntent(testimonial, published, ActionSave, now)
	testimonial.UpdatedAt = now

	if err := s.repository.UpdateTestimonial(ctx, testimonial); err != nil {
		return nil, &RecordError{RecordID: id, Op: "set_published", Err: err}
	}
	return testimonial, nil
}

func (s *service) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	testimonial, err := s.repository.GetTestimonial(ctx, id)
	if err != nil {
		return &RecordError{RecordID: id, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteTestimonial(ctx, id); err != nil {
		return &RecordError{RecordID: id, Op: "delete", Err: err}
	}

	if testimonial.LogoURL != "" {
		s.assets.Delete(ctx, testimonial.LogoURL)
	}
	return nil
}

func (s *service) DeleteTestimonials(ctx context.Context, ids []uuid.UUID) (int, error) {
	count := 0
	for _, id := range ids {
		if err := s.DeleteTestimonial(ctx, id); err != nil {
			if errors.Is(err, ErrTestimonialNotFound) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *service) CountTestimonials(ctx context.Context) (int64, error) {
	return s.repository.CountTestimonials(ctx, TestimonialFilter{Publish: PublishAny})
}

func (s *service) CountPublishedTestimonials(ctx context.Context) (int64, error) {
	return s.repository.CountTestimonials(ctx, TestimonialFilter{Publish: PublishedOnly})
}

func (s *service) CountDraftTestimonials(ctx context.Context) (int64, error) {
	return s.repository.CountTestimonials(ctx, TestimonialFilter{Publish: DraftsOnly})
}

// Asset operations

func (s *service) StoreAsset(ctx context.Context, up Upload, subFolder string) (string, error) {
	return s.assets.Store(ctx, up, subFolder)
}

// Contact operations

// SubmitContact validates the submission and forwards it to the notifier.
// A non-empty honeypot field short-circuits to success without notifying, so
// the sender cannot tell its submission was classified as spam.
func (s *service) SubmitContact(ctx context.Context, req ContactRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if req.Website != "" {
		s.logger.Info("contact submission dropped by honeypot", "email", req.Email)
		return nil
	}

	msg := ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
	}

	if err := s.notifier.Notify(ctx, msg); err != nil {
		return fmt.Errorf("failed to deliver contact message: %w", err)
	}

	s.logger.Info("contact message delivered", "email", req.Email)
	return nil
}
