package sitecontent

import (
	"time"

	"github.com/google/uuid"
)

// Action is the admin form intent accompanying a save request.
type Action string

// Action constants (typed).
const (
	ActionSave           Action = "save"
	ActionSaveAndPublish Action = "save_and_publish"
)

// PublishFilter selects records by publish state in list and count queries.
type PublishFilter int

const (
	PublishAny PublishFilter = iota
	PublishedOnly
	DraftsOnly
)

// ArticleSort is the ordering applied to article listings.
type ArticleSort string

const (
	ArticleSortPublishedDateDesc ArticleSort = "published_date_desc"
	ArticleSortCreatedAtDesc     ArticleSort = "created_at_desc"
)

// TestimonialSort is the ordering applied to testimonial listings.
type TestimonialSort string

const (
	TestimonialSortDisplayOrderAsc   TestimonialSort = "display_order_asc"
	TestimonialSortPublishedDateDesc TestimonialSort = "published_date_desc"
)

// Article represents a press article or blog post.
//
// A zero ID means the record has not been persisted yet; the first save
// assigns the ID and CreatedAt. PublishedDate is set exactly once, the first
// time the record transitions to published, and is kept when the record moves
// back to draft.
type Article struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ImageURL      string     `json:"image_url,omitempty"`
	ExternalLink  string     `json:"external_link,omitempty"`
	SourceName    string     `json:"source_name,omitempty"`
	Published     bool       `json:"published"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Testimonial represents a quote from a media outlet or partner. Testimonials
// carry a dense integer display order that drives their presentation sequence.
type Testimonial struct {
	ID            uuid.UUID  `json:"id"`
	Quote         string     `json:"quote"`
	SourceName    string     `json:"source_name"`
	SourceRole    string     `json:"source_role,omitempty"`
	LogoURL       string     `json:"logo_url,omitempty"`
	ExternalLink  string     `json:"external_link,omitempty"`
	Published     bool       `json:"published"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	DisplayOrder  int        `json:"display_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PublishRecord is the publish-state capability shared by Article and
// Testimonial. The publish state machine operates on this interface so both
// record families go through the same transition rules.
type PublishRecord interface {
	IsPublished() bool
	SetPublished(published bool)
	PublishDate() *time.Time
	SetPublishDate(t *time.Time)
}

func (a *Article) IsPublished() bool           { return a.Published }
func (a *Article) SetPublished(published bool) { a.Published = published }
func (a *Article) PublishDate() *time.Time     { return a.PublishedDate }
func (a *Article) SetPublishDate(t *time.Time) { a.PublishedDate = t }

func (t *Testimonial) IsPublished() bool            { return t.Published }
func (t *Testimonial) SetPublished(published bool)  { t.Published = published }
func (t *Testimonial) PublishDate() *time.Time      { return t.PublishedDate }
func (t *Testimonial) SetPublishDate(ts *time.Time) { t.PublishedDate = ts }

// ArticleFilter defines filtering for article list and count queries.
type ArticleFilter struct {
	Publish      PublishFilter
	Query        string // case-insensitive substring over title, content, source name
	CreatedAfter *time.Time
	SortBy       ArticleSort
	Limit        int // 0 means no limit
	Offset       int
}

// TestimonialFilter defines filtering for testimonial list and count queries.
type TestimonialFilter struct {
	Publish PublishFilter
	Query   string // case-insensitive substring over quote, source name, source role
	SortBy  TestimonialSort
	Limit   int // 0 means no limit
	Offset  int
}

// Page is one page of a listing along with pagination bookkeeping.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ContactMessage is a validated contact form submission handed to a Notifier.
type ContactMessage struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Service   string
	Message   string
}
