package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// Repository implements sitecontent.Repository using in-memory storage.
// The write mutex is the transactional boundary: order swaps and initial
// order assignment happen entirely under it, so no reader ever observes a
// half-applied swap or a duplicated max-read-then-insert rank.
type Repository struct {
	mu           sync.RWMutex
	articles     map[uuid.UUID]*sitecontent.Article
	testimonials map[uuid.UUID]*sitecontent.Testimonial
}

// New creates a new in-memory repository
func New() sitecontent.Repository {
	return &Repository{
		articles:     make(map[uuid.UUID]*sitecontent.Article),
		testimonials: make(map[uuid.UUID]*sitecontent.Testimonial),
	}
}

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, article *sitecontent.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	articleCopy := *article
	r.articles[article.ID] = &articleCopy

	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id uuid.UUID) (*sitecontent.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, exists := r.articles[id]
	if !exists {
		return nil, sitecontent.ErrArticleNotFound
	}

	articleCopy := *article
	return &articleCopy, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, article *sitecontent.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[article.ID]; !exists {
		return sitecontent.ErrArticleNotFound
	}

	articleCopy := *article
	r.articles[article.ID] = &articleCopy

	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[id]; !exists {
		return sitecontent.ErrArticleNotFound
	}

	delete(r.articles, id)
	return nil
}

func (r *Repository) ListArticles(ctx context.Context, filter sitecontent.ArticleFilter) ([]*sitecontent.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*sitecontent.Article, 0)
	for _, article := range r.articles {
		if !articleMatches(article, filter) {
			continue
		}
		articleCopy := *article
		result = append(result, &articleCopy)
	}

	switch filter.SortBy {
	case sitecontent.ArticleSortCreatedAtDesc:
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	default:
		sort.Slice(result, func(i, j int) bool {
			return publishedDateAfter(result[i].PublishedDate, result[j].PublishedDate)
		})
	}

	return applyWindow(result, filter.Offset, filter.Limit), nil
}

func (r *Repository) CountArticles(ctx context.Context, filter sitecontent.ArticleFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, article := range r.articles {
		if articleMatches(article, filter) {
			count++
		}
	}
	return count, nil
}

func articleMatches(article *sitecontent.Article, filter sitecontent.ArticleFilter) bool {
	switch filter.Publish {
	case sitecontent.PublishedOnly:
		if !article.Published {
			return false
		}
	case sitecontent.DraftsOnly:
		if article.Published {
			return false
		}
	}
	if filter.CreatedAfter != nil && !article.CreatedAt.After(*filter.CreatedAfter) {
		return false
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(article.Title), q) &&
			!strings.Contains(strings.ToLower(article.Content), q) &&
			!strings.Contains(strings.ToLower(article.SourceName), q) {
			return false
		}
	}
	return true
}

// Testimonial operations

func (r *Repository) CreateTestimonial(ctx context.Context, testimonial *sitecontent.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	testimonialCopy := *testimonial
	if testimonialCopy.DisplayOrder == 0 {
		// Append to the end; max read and insert share the write lock
		testimonialCopy.DisplayOrder = r.maxDisplayOrderLocked() + 1
	}
	r.testimonials[testimonial.ID] = &testimonialCopy

	// Reflect the assigned order back to the caller
	testimonial.DisplayOrder = testimonialCopy.DisplayOrder

	return nil
}

func (r *Repository) maxDisplayOrderLocked() int {
	max := 0
	for _, t := range r.testimonials {
		if t.DisplayOrder > max {
			max = t.DisplayOrder
		}
	}
	return max
}

func (r *Repository) GetTestimonial(ctx context.Context, id uuid.UUID) (*sitecontent.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	testimonial, exists := r.testimonials[id]
	if !exists {
		return nil, sitecontent.ErrTestimonialNotFound
	}

	testimonialCopy := *testimonial
	return &testimonialCopy, nil
}

func (r *Repository) UpdateTestimonial(ctx context.Context, testimonial *sitecontent.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.testimonials[testimonial.ID]; !exists {
		return sitecontent.ErrTestimonialNotFound
	}

	testimonialCopy := *testimonial
	r.testimonials[testimonial.ID] = &testimonialCopy

	return nil
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.testimonials[id]; !exists {
		return sitecontent.ErrTestimonialNotFound
	}

	delete(r.testimonials, id)
	return nil
}

func (r *Repository) ListTestimonials(ctx context.Context, filter sitecontent.TestimonialFilter) ([]*sitecontent.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*sitecontent.Testimonial, 0)
	for _, testimonial := range r.testimonials {
		if !testimonialMatches(testimonial, filter) {
			continue
		}
		testimonialCopy := *testimonial
		result = append(result, &testimonialCopy)
	}

	switch filter.SortBy {
	case sitecontent.TestimonialSortPublishedDateDesc:
		sort.Slice(result, func(i, j int) bool {
			return publishedDateAfter(result[i].PublishedDate, result[j].PublishedDate)
		})
	default:
		// Ascending display order; creation time breaks rank ties so the
		// scan order is deterministic for imported data
		sort.Slice(result, func(i, j int) bool {
			if result[i].DisplayOrder != result[j].DisplayOrder {
				return result[i].DisplayOrder < result[j].DisplayOrder
			}
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
	}

	return applyWindow(result, filter.Offset, filter.Limit), nil
}

func (r *Repository) CountTestimonials(ctx context.Context, filter sitecontent.TestimonialFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, testimonial := range r.testimonials {
		if testimonialMatches(testimonial, filter) {
			count++
		}
	}
	return count, nil
}

func testimonialMatches(testimonial *sitecontent.Testimonial, filter sitecontent.TestimonialFilter) bool {
	switch filter.Publish {
	case sitecontent.PublishedOnly:
		if !testimonial.Published {
			return false
		}
	case sitecontent.DraftsOnly:
		if testimonial.Published {
			return false
		}
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(testimonial.Quote), q) &&
			!strings.Contains(strings.ToLower(testimonial.SourceName), q) &&
			!strings.Contains(strings.ToLower(testimonial.SourceRole), q) {
			return false
		}
	}
	return true
}

// SwapTestimonialOrder exchanges the display orders of both records under the
// write lock: either both ranks change or neither does.
func (r *Repository) SwapTestimonialOrder(ctx context.Context, a, b uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	first, exists := r.testimonials[a]
	if !exists {
		return nil
	}
	second, exists := r.testimonials[b]
	if !exists {
		return nil
	}

	now := time.Now().UTC()
	first.DisplayOrder, second.DisplayOrder = second.DisplayOrder, first.DisplayOrder
	first.UpdatedAt = now
	second.UpdatedAt = now

	return nil
}

func (r *Repository) ReorderTestimonials(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*sitecontent.Testimonial, 0, len(r.testimonials))
	for _, t := range r.testimonials {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DisplayOrder != all[j].DisplayOrder {
			return all[i].DisplayOrder < all[j].DisplayOrder
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	now := time.Now().UTC()
	for i, t := range all {
		if t.DisplayOrder != i+1 {
			t.DisplayOrder = i + 1
			t.UpdatedAt = now
		}
	}

	return nil
}

// Helpers

func publishedDateAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

func applyWindow[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
