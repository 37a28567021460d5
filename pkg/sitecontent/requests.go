package sitecontent

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload carries the bytes and declared metadata of a file upload. Size and
// ContentType come from the client and are checked by the asset store's
// validation gate before anything is written.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// SaveArticleRequest contains parameters for creating or updating an article.
// A zero ID creates a new record.
//
// Published must reflect the raw submitted value set: an unchecked checkbox is
// not transmitted, so the HTTP layer fills this field from the presence of the
// parameter, never from a bind default. ActionSaveAndPublish overrides it.
type SaveArticleRequest struct {
	ID            uuid.UUID
	Title         string
	Content       string
	SourceName    string
	ExternalLink  string
	Published     bool
	PublishedDate *time.Time
	Action        Action
	Image         *Upload
	RemoveImage   bool
}

// Validate checks the request's body fields
func (r SaveArticleRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if len(title) < 3 || len(title) > 200 {
		return fmt.Errorf("%w: title must be between 3 and 200 characters", ErrInvalidInput)
	}
	if len(strings.TrimSpace(r.Content)) < 10 {
		return fmt.Errorf("%w: content must be at least 10 characters", ErrInvalidInput)
	}
	if len(r.SourceName) > 100 {
		return fmt.Errorf("%w: source name must not exceed 100 characters", ErrInvalidInput)
	}
	if len(r.ExternalLink) > 500 {
		return fmt.Errorf("%w: external link must not exceed 500 characters", ErrInvalidInput)
	}
	return nil
}

// SaveTestimonialRequest contains parameters for creating or updating a
// testimonial. A zero ID creates a new record; a zero DisplayOrder lets the
// repository append it to the end of the sequence.
type SaveTestimonialRequest struct {
	ID            uuid.UUID
	Quote         string
	SourceName    string
	SourceRole    string
	ExternalLink  string
	Published     bool
	PublishedDate *time.Time
	Action        Action
	DisplayOrder  int
	Logo          *Upload
	RemoveLogo    bool
}

// Validate checks the request's body fields
func (r SaveTestimonialRequest) Validate() error {
	if strings.TrimSpace(r.Quote) == "" {
		return fmt.Errorf("%w: quote is required", ErrInvalidInput)
	}
	if len(r.Quote) > 2000 {
		return fmt.Errorf("%w: quote must not exceed 2000 characters", ErrInvalidInput)
	}
	if strings.TrimSpace(r.SourceName) == "" {
		return fmt.Errorf("%w: source name is required", ErrInvalidInput)
	}
	if len(r.SourceName) > 200 {
		return fmt.Errorf("%w: source name must not exceed 200 characters", ErrInvalidInput)
	}
	if len(r.SourceRole) > 200 {
		return fmt.Errorf("%w: source role must not exceed 200 characters", ErrInvalidInput)
	}
	if len(r.ExternalLink) > 500 {
		return fmt.Errorf("%w: external link must not exceed 500 characters", ErrInvalidInput)
	}
	if r.DisplayOrder < 0 {
		return fmt.Errorf("%w: display order must not be negative", ErrInvalidInput)
	}
	return nil
}

// ContactRequest is an inbound contact form submission. Website is the
// honeypot field: legitimate users never fill it.
type ContactRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Service   string
	Message   string
	Website   string
}

// Validate checks the request's required fields
func (r ContactRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("%w: last name is required", ErrInvalidInput)
	}
	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(r.Message) > 5000 {
		return fmt.Errorf("%w: message must not exceed 5000 characters", ErrInvalidInput)
	}
	return nil
}
