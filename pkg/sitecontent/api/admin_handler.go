package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// AdminHandler serves the authenticated management endpoints
type AdminHandler struct {
	service sitecontent.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service sitecontent.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the routes for the admin API
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.Dashboard)
	r.Post("/assets", h.UploadAsset)

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.ListArticles)
		r.Post("/", h.SaveArticle)
		r.Post("/delete", h.DeleteArticles)
		r.Get("/{id}", h.GetArticle)
		r.Put("/{id}", h.SaveArticle)
		r.Delete("/{id}", h.DeleteArticle)
		r.Post("/{id}/toggle-publish", h.TogglePublishArticle)
	})

	r.Route("/testimonials", func(r chi.Router) {
		r.Get("/", h.ListTestimonials)
		r.Post("/", h.SaveTestimonial)
		r.Post("/delete", h.DeleteTestimonials)
		r.Post("/reorder", h.ReorderTestimonials)
		r.Get("/{id}", h.GetTestimonial)
		r.Put("/{id}", h.SaveTestimonial)
		r.Delete("/{id}", h.DeleteTestimonial)
		r.Post("/{id}/toggle-publish", h.TogglePublishTestimonial)
		r.Post("/{id}/publish", h.PublishTestimonial)
		r.Post("/{id}/unpublish", h.UnpublishTestimonial)
		r.Post("/{id}/move-up", h.MoveTestimonialUp)
		r.Post("/{id}/move-down", h.MoveTestimonialDown)
	})

	return r
}

// DashboardResponse aggregates the counts and recent records shown on the
// admin landing page.
type DashboardResponse struct {
	TotalArticles      int64                      `json:"total_articles"`
	PublishedArticles  int64                      `json:"published_articles"`
	DraftArticles      int64                      `json:"draft_articles"`
	RecentArticles     int64                      `json:"recent_articles"`
	TotalTestimonials  int64                      `json:"total_testimonials"`
	LatestArticles     []*sitecontent.Article     `json:"latest_articles"`
	LatestTestimonials []*sitecontent.Testimonial `json:"latest_testimonials"`
}

// DeleteBatchRequest carries the IDs for a bulk delete.
type DeleteBatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// DeleteBatchResponse reports how many records were removed.
type DeleteBatchResponse struct {
	Deleted int `json:"deleted"`
}

const recentWindowDays = 30

// Dashboard returns counts and the most recent records
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.service.CountArticles(ctx)
	if err != nil {
		slog.Error("Failed to count articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	published, err := h.service.CountPublishedArticles(ctx)
	if err != nil {
		slog.Error("Failed to count published articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	drafts, err := h.service.CountDraftArticles(ctx)
	if err != nil {
		slog.Error("Failed to count draft articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	recent, err := h.service.CountRecentArticles(ctx, recentWindowDays)
	if err != nil {
		slog.Error("Failed to count recent articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	testimonials, err := h.service.CountTestimonials(ctx)
	if err != nil {
		slog.Error("Failed to count testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	latestArticles, err := h.service.ListLatestArticles(ctx, 5)
	if err != nil {
		slog.Error("Failed to list latest articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	latestTestimonials, err := h.service.ListLatestTestimonials(ctx, 5)
	if err != nil {
		slog.Error("Failed to list latest testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, DashboardResponse{
		TotalArticles:      total,
		PublishedArticles:  published,
		DraftArticles:      drafts,
		RecentArticles:     recent,
		TotalTestimonials:  testimonials,
		LatestArticles:     latestArticles,
		LatestTestimonials: latestTestimonials,
	})
}

// UploadAssetResponse carries the public URL of a stored asset.
type UploadAssetResponse struct {
	URL string `json:"url"`
}

// UploadAsset stores a standalone image and returns its public URL
func (h *AdminHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(sitecontent.MaxUploadBytes); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	upload, closeUpload, err := formUpload(r, "file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if upload == nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer closeUpload()

	subFolder := r.PostFormValue("folder")
	if subFolder == "" {
		subFolder = sitecontent.SubFolderBlog
	}

	url, err := h.service.StoreAsset(r.Context(), *upload, subFolder)
	if err != nil {
		h.writeArticleError(w, err, uuid.Nil)
		return
	}

	render.JSON(w, r, UploadAssetResponse{URL: url})
}

// ListArticles returns one page of articles, optionally filtered by status
func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	ctx := r.Context()

	var (
		result *sitecontent.Page[*sitecontent.Article]
		err    error
	)
	switch r.URL.Query().Get("status") {
	case "published":
		result, err = h.service.ListPublishedArticles(ctx, page, size)
	case "draft":
		result, err = h.service.ListDraftArticles(ctx, page, size)
	default:
		result, err = h.service.ListArticles(ctx, page, size)
	}
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, result)
}

// GetArticle returns a single article regardless of publish state
func (h *AdminHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	article, err := h.service.GetArticle(r.Context(), id)
	if err != nil {
		h.writeArticleError(w, err, id)
		return
	}

	render.JSON(w, r, article)
}

// SaveArticle creates or updates an article from a multipart form. The
// publish checkbox is read from the raw form values so an unticked box
// means draft; the save_and_publish action overrides it.
func (h *AdminHandler) SaveArticle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(sitecontent.MaxUploadBytes); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	req := sitecontent.SaveArticleRequest{
		Title:        r.PostFormValue("title"),
		Content:      r.PostFormValue("content"),
		SourceName:   r.PostFormValue("source_name"),
		ExternalLink: r.PostFormValue("external_link"),
		Published:    checkboxValue(r, "published"),
		Action:       sitecontent.Action(r.PostFormValue("action")),
		RemoveImage:  checkboxValue(r, "remove_image"),
	}

	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid article ID", http.StatusBadRequest)
			return
		}
		req.ID = id
	}

	if raw := r.PostFormValue("published_date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid published_date", http.StatusBadRequest)
			return
		}
		req.PublishedDate = &date
	}

	upload, closeUpload, err := formUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}
	req.Image = upload

	article, err := h.service.SaveArticle(r.Context(), req)
	if err != nil {
		h.writeArticleError(w, err, req.ID)
		return
	}

	render.JSON(w, r, article)
}

// TogglePublishArticle flips the publish state of an article
func (h *AdminHandler) TogglePublishArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	article, err := h.service.TogglePublishArticle(r.Context(), id)
	if err != nil {
		h.writeArticleError(w, err, id)
		return
	}

	render.JSON(w, r, article)
}

// DeleteArticle removes an article and its image
func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteArticle(r.Context(), id); err != nil {
		h.writeArticleError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteArticles removes a batch of articles, skipping missing IDs
func (h *AdminHandler) DeleteArticles(w http.ResponseWriter, r *http.Request) {
	var req DeleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteArticles(r.Context(), req.IDs)
	if err != nil {
		slog.Error("Failed to delete articles", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, DeleteBatchResponse{Deleted: deleted})
}

// ListTestimonials returns one page of testimonials, optionally filtered
func (h *AdminHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	ctx := r.Context()

	var (
		result *sitecontent.Page[*sitecontent.Testimonial]
		err    error
	)
	switch r.URL.Query().Get("status") {
	case "published":
		result, err = h.service.ListPublishedTestimonials(ctx, page, size)
	case "draft":
		result, err = h.service.ListDraftTestimonials(ctx, page, size)
	default:
		result, err = h.service.ListTestimonials(ctx, page, size)
	}
	if err != nil {
		slog.Error("Failed to list testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, result)
}

// GetTestimonial returns a single testimonial regardless of publish state
func (h *AdminHandler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	testimonial, err := h.service.GetTestimonial(r.Context(), id)
	if err != nil {
		h.writeTestimonialError(w, err, id)
		return
	}

	render.JSON(w, r, testimonial)
}

// SaveTestimonial creates or updates a testimonial from a multipart form
func (h *AdminHandler) SaveTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(sitecontent.MaxUploadBytes); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	req := sitecontent.SaveTestimonialRequest{
		Quote:        r.PostFormValue("quote"),
		SourceName:   r.PostFormValue("source_name"),
		SourceRole:   r.PostFormValue("source_role"),
		ExternalLink: r.PostFormValue("external_link"),
		Published:    checkboxValue(r, "published"),
		Action:       sitecontent.Action(r.PostFormValue("action")),
		RemoveLogo:   checkboxValue(r, "remove_logo"),
	}

	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid testimonial ID", http.StatusBadRequest)
			return
		}
		req.ID = id
	}

	if raw := r.PostFormValue("published_date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid published_date", http.StatusBadRequest)
			return
		}
		req.PublishedDate = &date
	}

	if raw := r.PostFormValue("display_order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid display_order", http.StatusBadRequest)
			return
		}
		req.DisplayOrder = order
	}

	upload, closeUpload, err := formUpload(r, "logo")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}
	req.Logo = upload

	testimonial, err := h.service.SaveTestimonial(r.Context(), req)
	if err != nil {
		h.writeTestimonialError(w, err, req.ID)
		return
	}

	render.JSON(w, r, testimonial)
}

// TogglePublishTestimonial flips the publish state of a testimonial
func (h *AdminHandler) TogglePublishTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.service.TogglePublishTestimonial)
}

// PublishTestimonial marks a testimonial as published
func (h *AdminHandler) PublishTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.service.PublishTestimonial)
}

// UnpublishTestimonial reverts a testimonial to draft
func (h *AdminHandler) UnpublishTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.service.UnpublishTestimonial)
}

// MoveTestimonialUp swaps a testimonial with its closest better-ranked peer
func (h *AdminHandler) MoveTestimonialUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.MoveTestimonialUp(r.Context(), id); err != nil {
		h.writeTestimonialError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveTestimonialDown swaps a testimonial with its closest worse-ranked peer
func (h *AdminHandler) MoveTestimonialDown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.MoveTestimonialDown(r.Context(), id); err != nil {
		h.writeTestimonialError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderTestimonials renumbers all testimonials into a contiguous sequence
func (h *AdminHandler) ReorderTestimonials(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ReorderTestimonials(r.Context()); err != nil {
		slog.Error("Failed to reorder testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTestimonial removes a testimonial and its logo
func (h *AdminHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTestimonial(r.Context(), id); err != nil {
		h.writeTestimonialError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTestimonials removes a batch of testimonials, skipping missing IDs
func (h *AdminHandler) DeleteTestimonials(w http.ResponseWriter, r *http.Request) {
	var req DeleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteTestimonials(r.Context(), req.IDs)
	if err != nil {
		slog.Error("Failed to delete testimonials", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, DeleteBatchResponse{Deleted: deleted})
}

func (h *AdminHandler) testimonialAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*sitecontent.Testimonial, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	testimonial, err := fn(r.Context(), id)
	if err != nil {
		h.writeTestimonialError(w, err, id)
		return
	}

	render.JSON(w, r, testimonial)
}

func (h *AdminHandler) writeArticleError(w http.ResponseWriter, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, sitecontent.ErrArticleNotFound):
		http.Error(w, "Article not found", http.StatusNotFound)
	case errors.Is(err, sitecontent.ErrInvalidInput), errors.Is(err, sitecontent.ErrEmptyUpload), errors.Is(err, sitecontent.ErrInvalidFilename):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sitecontent.ErrUploadTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, sitecontent.ErrUnsupportedMediaType):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	default:
		slog.Error("Article operation failed", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *AdminHandler) writeTestimonialError(w http.ResponseWriter, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, sitecontent.ErrTestimonialNotFound):
		http.Error(w, "Testimonial not found", http.StatusNotFound)
	case errors.Is(err, sitecontent.ErrInvalidInput), errors.Is(err, sitecontent.ErrEmptyUpload), errors.Is(err, sitecontent.ErrInvalidFilename):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sitecontent.ErrUploadTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, sitecontent.ErrUnsupportedMediaType):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	default:
		slog.Error("Testimonial operation failed", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses the {id} route parameter, writing a 400 on failure
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// checkboxValue reads a checkbox from the raw form values. Browsers omit
// unticked checkboxes entirely, so absence means false.
func checkboxValue(r *http.Request, name string) bool {
	for _, v := range r.PostForm[name] {
		if v == "true" || v == "on" || v == "1" {
			return true
		}
	}
	return false
}

// formUpload extracts an optional file part from a parsed multipart form.
// It returns a nil upload when no file was attached.
func formUpload(r *http.Request, field string) (*sitecontent.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	upload := &sitecontent.Upload{
		Reader:      file,
		Size:        header.Size,
		ContentType: detectContentType(header),
		Filename:    header.Filename,
	}
	return upload, func() { file.Close() }, nil
}

func detectContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
