package sitecontent

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for asset byte storage backends
type BlobStore interface {
	// Upload writes the content of reader under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the content stored under the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content stored under the given key. Deleting a
	// missing key returns ErrAssetNotFound.
	Delete(ctx context.Context, key string) error

	// Exists reports whether content is stored under the given key
	Exists(ctx context.Context, key string) (bool, error)
}

// Repository defines the interface for content record persistence.
//
// Implementations own the transactional boundaries the ordering engine
// relies on: SwapTestimonialOrder commits both rank writes together or not
// at all, and CreateTestimonial assigns the initial display order atomically
// with the insert when the record carries none.
type Repository interface {
	// Article operations
	CreateArticle(ctx context.Context, article *Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	UpdateArticle(ctx context.Context, article *Article) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)
	CountArticles(ctx context.Context, filter ArticleFilter) (int64, error)

	// Testimonial operations
	CreateTestimonial(ctx context.Context, testimonial *Testimonial) error
	GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	UpdateTestimonial(ctx context.Context, testimonial *Testimonial) error
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
	ListTestimonials(ctx context.Context, filter TestimonialFilter) ([]*Testimonial, error)
	CountTestimonials(ctx context.Context, filter TestimonialFilter) (int64, error)

	// SwapTestimonialOrder exchanges the display orders of the two records
	// atomically. A record missing at commit time makes the swap a no-op.
	SwapTestimonialOrder(ctx context.Context, a, b uuid.UUID) error

	// ReorderTestimonials compacts display orders into a contiguous 1..N
	// sequence. This is the only operation allowed to renumber more than two
	// records at once.
	ReorderTestimonials(ctx context.Context) error
}

// Notifier delivers a contact message to an external channel
type Notifier interface {
	Notify(ctx context.Context, msg ContactMessage) error
}
