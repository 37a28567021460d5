package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// SiteHandler serves the public read-only endpoints and the contact form
type SiteHandler struct {
	service sitecontent.Service
}

// NewSiteHandler creates a new public site handler
func NewSiteHandler(service sitecontent.Service) *SiteHandler {
	return &SiteHandler{service: service}
}

// Routes returns the routes for the public site
func (h *SiteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/articles", h.ListArticles)
	r.Get("/articles/search", h.SearchArticles)
	r.Get("/articles/{id}", h.GetArticle)
	r.Get("/testimonials", h.ListTestimonials)
	r.Post("/contact", h.SubmitContact)

	return r
}

// ContactSubmission is the request body for a contact form submission.
// Website is the honeypot field.
type ContactSubmission struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
	Website   string `json:"website,omitempty"`
}

// ListArticles returns one page of published articles
func (h *SiteHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	result, err := h.service.ListPublishedArticles(r.Context(), page, size)
	if err != nil {
		slog.Error("Failed to list published articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, result)
}

// SearchArticles returns one page of published articles matching the query
func (h *SiteHandler) SearchArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page, size := pageParams(r)

	result, err := h.service.SearchPublishedArticles(r.Context(), query, page, size)
	if err != nil {
		slog.Error("Failed to search published articles", "query", query, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, result)
}

// GetArticle returns a single published article. Drafts and missing records
// are both reported as not found.
func (h *SiteHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return
	}

	article, err := h.service.GetPublishedArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, sitecontent.ErrArticleNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get published article", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, article)
}

// ListTestimonials returns one page of published testimonials in display order
func (h *SiteHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	result, err := h.service.ListPublishedTestimonials(r.Context(), page, size)
	if err != nil {
		slog.Error("Failed to list published testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, result)
}

// SubmitContact accepts a contact form submission. Honeypot-flagged
// submissions receive the same response as delivered ones.
func (h *SiteHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.service.SubmitContact(r.Context(), sitecontent.ContactRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
		Website:   req.Website,
	})
	if err != nil {
		if errors.Is(err, sitecontent.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to submit contact message", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}

// pageParams extracts page and size query parameters. The service clamps
// out-of-range values, so parse failures just fall back to zero.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return page, size
}
