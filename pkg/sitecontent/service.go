package sitecontent

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface for the site content engine
type Service interface {
	// Article operations
	SaveArticle(ctx context.Context, req SaveArticleRequest) (*Article, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	GetPublishedArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	ListArticles(ctx context.Context, page, size int) (*Page[*Article], error)
	ListPublishedArticles(ctx context.Context, page, size int) (*Page[*Article], error)
	ListDraftArticles(ctx context.Context, page, size int) (*Page[*Article], error)
	ListLatestArticles(ctx context.Context, limit int) ([]*Article, error)
	SearchPublishedArticles(ctx context.Context, query string, page, size int) (*Page[*Article], error)
	TogglePublishArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	DeleteArticles(ctx context.Context, ids []uuid.UUID) (int, error)
	ArticleExists(ctx context.Context, id uuid.UUID) (bool, error)
	CountArticles(ctx context.Context) (int64, error)
	CountPublishedArticles(ctx context.Context) (int64, error)
	CountDraftArticles(ctx context.Context) (int64, error)
	CountRecentArticles(ctx context.Context, days int) (int64, error)

	// Testimonial operations
	SaveTestimonial(ctx context.Context, req SaveTestimonialRequest) (*Testimonial, error)
	GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	GetPublishedTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	ListTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error)
	ListPublishedTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error)
	ListDraftTestimonials(ctx context.Context, page, size int) (*Page[*Testimonial], error)
	ListLatestTestimonials(ctx context.Context, limit int) ([]*Testimonial, error)
	TogglePublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	PublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	UnpublishTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	MoveTestimonialUp(ctx context.Context, id uuid.UUID) error
	MoveTestimonialDown(ctx context.Context, id uuid.UUID) error
	ReorderTestimonials(ctx context.Context) error
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
	DeleteTestimonials(ctx context.Context, ids []uuid.UUID) (int, error)
	CountTestimonials(ctx context.Context) (int64, error)
	CountPublishedTestimonials(ctx context.Context) (int64, error)
	CountDraftTestimonials(ctx context.Context) (int64, error)

	// Asset operations
	StoreAsset(ctx context.Context, up Upload, subFolder string) (string, error)

	// Contact operations
	SubmitContact(ctx context.Context, req ContactRequest) error
}
