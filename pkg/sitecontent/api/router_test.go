package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
	"github.com/corpsite/sitecontent/pkg/sitecontent/api"
	"github.com/corpsite/sitecontent/pkg/sitecontent/repo/memory"
	memorystorage "github.com/corpsite/sitecontent/pkg/sitecontent/storage/memory"
)

const testSecret = "test-secret"

func newAPIServer(t *testing.T) (http.Handler, sitecontent.Service) {
	t.Helper()

	svc, err := sitecontent.New(
		sitecontent.WithRepository(memory.New()),
		sitecontent.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	handler := api.NewRouter(svc, api.RouterConfig{JWTSecret: testSecret})
	return handler, svc
}

func adminToken(t *testing.T) string {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte(testSecret), nil)
	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return tokenString
}

func doRequest(t *testing.T, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func publishArticle(t *testing.T, svc sitecontent.Service, title string) *sitecontent.Article {
	t.Helper()
	article, err := svc.SaveArticle(context.Background(), sitecontent.SaveArticleRequest{
		Title:   title,
		Content: "A long enough article body",
		Action:  sitecontent.ActionSaveAndPublish,
	})
	require.NoError(t, err)
	return article
}

func draftArticle(t *testing.T, svc sitecontent.Service, title string) *sitecontent.Article {
	t.Helper()
	article, err := svc.SaveArticle(context.Background(), sitecontent.SaveArticleRequest{
		Title:   title,
		Content: "A long enough article body",
		Action:  sitecontent.ActionSave,
	})
	require.NoError(t, err)
	return article
}

func TestPublicArticleRoutes(t *testing.T) {
	handler, svc := newAPIServer(t)

	published := publishArticle(t, svc, "Launch Coverage")
	draft := draftArticle(t, svc, "Draft Notes")

	t.Run("list returns only published articles", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var page sitecontent.Page[*sitecontent.Article]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, published.ID, page.Items[0].ID)
	})

	t.Run("published detail is served", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles/"+published.ID.String(), nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("draft detail is a 404", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles/"+draft.ID.String(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing detail is the same 404", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search filters published articles", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/articles/search?q=launch", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var page sitecontent.Page[*sitecontent.Article]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Len(t, page.Items, 1)
	})
}

func TestContactRoute(t *testing.T) {
	handler, _ := newAPIServer(t)

	submit := func(body map[string]string) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		return doRequest(t, handler, req)
	}

	valid := map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"message":    "I would like a demo",
	}

	t.Run("valid submission succeeds", func(t *testing.T) {
		rec := submit(valid)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("honeypot submission gets the same response", func(t *testing.T) {
		spam := map[string]string{}
		for k, v := range valid {
			spam[k] = v
		}
		spam["website"] = "http://spam.example"

		rec := submit(spam)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		rec := submit(map[string]string{"first_name": "Ada"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminAuth(t *testing.T) {
	handler, _ := newAPIServer(t)

	t.Run("no token is a 401", func(t *testing.T) {
		rec := doRequest(t, handler, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is a 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := doRequest(t, handler, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		rec := doRequest(t, handler, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// multipartForm builds a multipart body from fields plus an optional PNG part.
func multipartForm(t *testing.T, fields map[string]string, fileField, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, fileName))
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAdminSaveArticle(t *testing.T) {
	handler, _ := newAPIServer(t)

	save := func(fields map[string]string, withImage bool) *httptest.ResponseRecorder {
		fileField, fileName := "", ""
		if withImage {
			fileField, fileName = "image", "press.png"
		}
		body, contentType := multipartForm(t, fields, fileField, fileName)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/articles/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		return doRequest(t, handler, req)
	}

	t.Run("absent checkbox saves a draft", func(t *testing.T) {
		rec := save(map[string]string{
			"title":   "New Article",
			"content": "A long enough article body",
			"action":  "save",
		}, false)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var article sitecontent.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
		assert.False(t, article.Published)
		assert.Nil(t, article.PublishedDate)
	})

	t.Run("checked checkbox publishes", func(t *testing.T) {
		rec := save(map[string]string{
			"title":     "Published Article",
			"content":   "A long enough article body",
			"action":    "save",
			"published": "on",
		}, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var article sitecontent.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
		assert.True(t, article.Published)
		assert.NotNil(t, article.PublishedDate)
	})

	t.Run("save_and_publish overrides the absent checkbox", func(t *testing.T) {
		rec := save(map[string]string{
			"title":   "Forced Publish",
			"content": "A long enough article body",
			"action":  "save_and_publish",
		}, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var article sitecontent.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
		assert.True(t, article.Published)
	})

	t.Run("image upload is stored", func(t *testing.T) {
		rec := save(map[string]string{
			"title":   "Illustrated Article",
			"content": "A long enough article body",
			"action":  "save",
		}, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var article sitecontent.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
		assert.True(t, strings.HasPrefix(article.ImageURL, "/uploads/blog/"))
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		rec := save(map[string]string{
			"title":   "ab",
			"content": "A long enough article body",
			"action":  "save",
		}, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminSaveTestimonial(t *testing.T) {
	handler, svc := newAPIServer(t)

	save := func(method, path string, fields map[string]string) *httptest.ResponseRecorder {
		body, contentType := multipartForm(t, fields, "", "")
		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		return doRequest(t, handler, req)
	}

	t.Run("external link round-trips", func(t *testing.T) {
		rec := save(http.MethodPost, "/api/admin/testimonials/", map[string]string{
			"quote":         "Great service all around",
			"source_name":   "Ada Lovelace",
			"external_link": "https://example.com/story",
			"action":        "save",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var testimonial sitecontent.Testimonial
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &testimonial))
		assert.Equal(t, "https://example.com/story", testimonial.ExternalLink)
	})

	t.Run("update keeps a resubmitted external link", func(t *testing.T) {
		created, err := svc.SaveTestimonial(context.Background(), sitecontent.SaveTestimonialRequest{
			Quote:        "Quote worth keeping",
			SourceName:   "Source C",
			ExternalLink: "https://example.com/case-study",
			Action:       sitecontent.ActionSave,
		})
		require.NoError(t, err)

		rec := save(http.MethodPut, "/api/admin/testimonials/"+created.ID.String(), map[string]string{
			"quote":         "Quote worth keeping, revised",
			"source_name":   "Source C",
			"external_link": "https://example.com/case-study",
			"action":        "save",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated, err := svc.GetTestimonial(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/case-study", updated.ExternalLink)
		assert.Equal(t, "Quote worth keeping, revised", updated.Quote)
	})

	t.Run("published date is parsed", func(t *testing.T) {
		rec := save(http.MethodPost, "/api/admin/testimonials/", map[string]string{
			"quote":          "Dated quote for the record",
			"source_name":    "Source D",
			"published_date": "2025-06-01T09:00:00Z",
			"action":         "save",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var testimonial sitecontent.Testimonial
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &testimonial))
		require.NotNil(t, testimonial.PublishedDate)
		assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), testimonial.PublishedDate.UTC())
	})

	t.Run("invalid published date is a 400", func(t *testing.T) {
		rec := save(http.MethodPost, "/api/admin/testimonials/", map[string]string{
			"quote":          "Another quote entirely",
			"source_name":    "Source E",
			"published_date": "01/06/2025",
			"action":         "save",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminTestimonialOrdering(t *testing.T) {
	handler, svc := newAPIServer(t)
	ctx := context.Background()

	first, err := svc.SaveTestimonial(ctx, sitecontent.SaveTestimonialRequest{
		Quote: "First quote", SourceName: "Source A", Action: sitecontent.ActionSave,
	})
	require.NoError(t, err)
	second, err := svc.SaveTestimonial(ctx, sitecontent.SaveTestimonialRequest{
		Quote: "Second quote", SourceName: "Source B", Action: sitecontent.ActionSave,
	})
	require.NoError(t, err)

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		return doRequest(t, handler, req)
	}

	t.Run("move up swaps ranks", func(t *testing.T) {
		rec := post("/api/admin/testimonials/" + second.ID.String() + "/move-up")
		require.Equal(t, http.StatusNoContent, rec.Code)

		moved, err := svc.GetTestimonial(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, moved.DisplayOrder)

		other, err := svc.GetTestimonial(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, other.DisplayOrder)
	})

	t.Run("moving a missing testimonial is a 404", func(t *testing.T) {
		rec := post("/api/admin/testimonials/" + uuid.NewString() + "/move-up")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reorder compacts", func(t *testing.T) {
		rec := post("/api/admin/testimonials/reorder")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAdminBulkDelete(t *testing.T) {
	handler, svc := newAPIServer(t)
	ctx := context.Background()

	a := draftArticle(t, svc, "Delete Me One")
	b := draftArticle(t, svc, "Delete Me Two")

	payload, err := json.Marshal(map[string][]string{
		"ids": {a.ID.String(), uuid.NewString(), b.ID.String()},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/articles/delete", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := doRequest(t, handler, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DeleteBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Deleted)

	exists, err := svc.ArticleExists(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdminDashboard(t *testing.T) {
	handler, svc := newAPIServer(t)

	publishArticle(t, svc, "Published One")
	draftArticle(t, svc, "Draft One")
	_, err := svc.SaveTestimonial(context.Background(), sitecontent.SaveTestimonialRequest{
		Quote: "Quote", SourceName: "Source", Action: sitecontent.ActionSave,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := doRequest(t, handler, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.TotalArticles)
	assert.Equal(t, int64(1), resp.PublishedArticles)
	assert.Equal(t, int64(1), resp.DraftArticles)
	assert.Equal(t, int64(1), resp.TotalTestimonials)
	assert.Len(t, resp.LatestArticles, 2)
}
