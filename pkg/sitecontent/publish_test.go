package sitecontent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

func TestApplyPublishIntent(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("plain save keeps the record a draft", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.ApplyPublishIntent(article, false, sitecontent.ActionSave, now)

		assert.False(t, article.Published)
		assert.Nil(t, article.PublishedDate)
	})

	t.Run("checked flag publishes and stamps the date", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.ApplyPublishIntent(article, true, sitecontent.ActionSave, now)

		assert.True(t, article.Published)
		require.NotNil(t, article.PublishedDate)
		assert.Equal(t, now, *article.PublishedDate)
	})

	t.Run("save_and_publish overrides an unchecked flag", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.ApplyPublishIntent(article, false, sitecontent.ActionSaveAndPublish, now)

		assert.True(t, article.Published)
		require.NotNil(t, article.PublishedDate)
	})

	t.Run("an existing date is never overwritten", func(t *testing.T) {
		original := now.AddDate(-1, 0, 0)
		article := &sitecontent.Article{PublishedDate: &original}
		sitecontent.ApplyPublishIntent(article, true, sitecontent.ActionSave, now)

		assert.Equal(t, original, *article.PublishedDate)
	})

	t.Run("unpublishing keeps the date", func(t *testing.T) {
		original := now.AddDate(-1, 0, 0)
		article := &sitecontent.Article{Published: true, PublishedDate: &original}
		sitecontent.ApplyPublishIntent(article, false, sitecontent.ActionSave, now)

		assert.False(t, article.Published)
		assert.Equal(t, original, *article.PublishedDate)
	})

	t.Run("applies to testimonials through the same rules", func(t *testing.T) {
		testimonial := &sitecontent.Testimonial{}
		sitecontent.ApplyPublishIntent(testimonial, false, sitecontent.ActionSaveAndPublish, now)

		assert.True(t, testimonial.Published)
		require.NotNil(t, testimonial.PublishedDate)
		assert.Equal(t, now, *testimonial.PublishedDate)
	})
}

func TestFlipPublish(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("first flip publishes and stamps", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.FlipPublish(article, now)

		assert.True(t, article.Published)
		require.NotNil(t, article.PublishedDate)
		assert.Equal(t, now, *article.PublishedDate)
	})

	t.Run("flip back to draft keeps the date", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.FlipPublish(article, now)
		sitecontent.FlipPublish(article, now.Add(time.Hour))

		assert.False(t, article.Published)
		require.NotNil(t, article.PublishedDate)
		assert.Equal(t, now, *article.PublishedDate)
	})

	t.Run("republish keeps the original date", func(t *testing.T) {
		article := &sitecontent.Article{}
		sitecontent.FlipPublish(article, now)
		sitecontent.FlipPublish(article, now.Add(time.Hour))
		sitecontent.FlipPublish(article, now.Add(2*time.Hour))

		assert.True(t, article.Published)
		assert.Equal(t, now, *article.PublishedDate)
	})
}
