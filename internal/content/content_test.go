package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/cache"
	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

func setupContentTest(t *testing.T) ContentService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Article{}, &models.Category{},
		&models.Content{}, &models.Page{}, &models.SiteSetting{},
	))

	svc, err := NewService(zap.NewNop(), db, cache.New(nil, zap.NewNop()))
	require.NoError(t, err)
	return svc
}

func TestArticles(t *testing.T) {
	svc := setupContentTest(t)
	ctx := context.Background()

	draft, err := svc.CreateArticle(ctx, &models.CreateArticleRequest{
		Title:    "Printing PETG",
		Content:  "Bed temperature matters.",
		Category: "guides",
		Slug:     "printing-petg",
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", draft.Status)
	assert.False(t, draft.IsPublished)
	assert.Nil(t, draft.PublishedAt)

	published, err := svc.CreateArticle(ctx, &models.CreateArticleRequest{
		Title:    "Choosing a nozzle",
		Content:  "Brass wears out on carbon fiber.",
		Category: "guides",
		Slug:     "choosing-a-nozzle",
		Status:   "published",
	})
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := svc.CreateArticle(ctx, &models.CreateArticleRequest{
			Title:    "Another",
			Content:  "body",
			Category: "guides",
			Slug:     "printing-petg",
		})
		require.Error(t, err)
		assert.Equal(t, 409, apierr.StatusCode(err))
	})

	t.Run("public listing shows published only", func(t *testing.T) {
		articles, total, err := svc.ListArticles(ctx, true, "", 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, articles, 1)
		assert.Equal(t, "choosing-a-nozzle", articles[0].Slug)
	})

	t.Run("admin listing shows drafts too", func(t *testing.T) {
		_, total, err := svc.ListArticles(ctx, false, "", 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("reads of a published article count views", func(t *testing.T) {
		got, err := svc.GetArticle(ctx, "choosing-a-nozzle", false)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.Views)

		again, err := svc.GetArticle(ctx, published.ID.String(), false)
		require.NoError(t, err)
		assert.EqualValues(t, 2, again.Views)
	})

	t.Run("draft hidden from public reads", func(t *testing.T) {
		_, err := svc.GetArticle(ctx, draft.ID.String(), false)
		assert.Equal(t, 404, apierr.StatusCode(err))

		_, err = svc.GetArticle(ctx, "printing-petg", false)
		assert.Equal(t, 404, apierr.StatusCode(err))

		got, err := svc.GetArticle(ctx, draft.ID.String(), true)
		require.NoError(t, err)
		assert.Zero(t, got.Views)
	})

	t.Run("publish stamps published_at once", func(t *testing.T) {
		first, err := svc.PublishArticle(ctx, draft.ID)
		require.NoError(t, err)
		require.NotNil(t, first.PublishedAt)
		stamped := *first.PublishedAt

		unpublish := "draft"
		_, err = svc.UpdateArticle(ctx, draft.ID, &models.UpdateArticleRequest{Status: &unpublish})
		require.NoError(t, err)

		second, err := svc.PublishArticle(ctx, draft.ID)
		require.NoError(t, err)
		require.NotNil(t, second.PublishedAt)
		assert.Equal(t, stamped.Unix(), second.PublishedAt.Unix())
	})

	t.Run("unpublish hides from public listing", func(t *testing.T) {
		unpublish := "draft"
		updated, err := svc.UpdateArticle(ctx, draft.ID, &models.UpdateArticleRequest{Status: &unpublish})
		require.NoError(t, err)
		assert.False(t, updated.IsPublished)

		_, total, err := svc.ListArticles(ctx, true, "", 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("slug change to a taken slug conflicts", func(t *testing.T) {
		taken := "choosing-a-nozzle"
		_, err := svc.UpdateArticle(ctx, draft.ID, &models.UpdateArticleRequest{Slug: &taken})
		require.Error(t, err)
		assert.Equal(t, 409, apierr.StatusCode(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteArticle(ctx, draft.ID))
		_, err := svc.GetArticle(ctx, draft.ID.String(), true)
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}

func TestCategories(t *testing.T) {
	svc := setupContentTest(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &models.CreateCategoryRequest{
		Name: "Guides", Slug: "guides", Type: "article",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	t.Run("duplicate name or slug conflicts", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, &models.CreateCategoryRequest{
			Name: "Guides", Slug: "guides-2", Type: "article",
		})
		require.Error(t, err)
		assert.Equal(t, 409, apierr.StatusCode(err))

		_, err = svc.CreateCategory(ctx, &models.CreateCategoryRequest{
			Name: "Other", Slug: "guides", Type: "article",
		})
		require.Error(t, err)
		assert.Equal(t, 409, apierr.StatusCode(err))
	})

	t.Run("filter by type and active flag", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, &models.CreateCategoryRequest{
			Name: "Decor", Slug: "decor", Type: "project",
		})
		require.NoError(t, err)

		categories, err := svc.ListCategories(ctx, "article", true)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "guides", categories[0].Slug)

		_, err = svc.SetCategoryActive(ctx, created.ID, false)
		require.NoError(t, err)

		categories, err = svc.ListCategories(ctx, "article", true)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("lookup by slug and id", func(t *testing.T) {
		bySlug, err := svc.GetCategoryBySlug(ctx, "guides")
		require.NoError(t, err)
		byID, err := svc.GetCategory(ctx, bySlug.ID)
		require.NoError(t, err)
		assert.Equal(t, bySlug.ID, byID.ID)

		_, err = svc.GetCategoryBySlug(ctx, "missing")
		assert.Equal(t, 404, apierr.StatusCode(err))
	})

	t.Run("search", func(t *testing.T) {
		categories, err := svc.SearchCategories(ctx, "dec")
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "decor", categories[0].Slug)
	})

	t.Run("delete deactivates instead of removing", func(t *testing.T) {
		active, err := svc.SetCategoryActive(ctx, created.ID, true)
		require.NoError(t, err)
		require.True(t, active.IsActive)

		require.NoError(t, svc.DeleteCategory(ctx, created.ID))

		survivor, err := svc.GetCategory(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, survivor.IsActive)

		categories, err := svc.ListCategories(ctx, "article", true)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})
}

func TestContentFragments(t *testing.T) {
	svc := setupContentTest(t)
	ctx := context.Background()

	entry, err := svc.UpsertContent(ctx, &models.UpsertContentRequest{
		Key:       "home.hero.title",
		Content:   "Print anything",
		GroupName: "home",
	})
	require.NoError(t, err)
	assert.Equal(t, "text", entry.ContentType)
	assert.True(t, entry.IsActive)

	t.Run("upsert replaces in place", func(t *testing.T) {
		updated, err := svc.UpsertContent(ctx, &models.UpsertContentRequest{
			Key:       "home.hero.title",
			Content:   "Print everything",
			GroupName: "home",
		})
		require.NoError(t, err)
		assert.Equal(t, entry.ID, updated.ID)
		assert.Equal(t, "Print everything", updated.Content)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := svc.UpsertContent(ctx, &models.UpsertContentRequest{Content: "x"})
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("by keys skips inactive and missing", func(t *testing.T) {
		inactive := false
		_, err := svc.UpsertContent(ctx, &models.UpsertContentRequest{
			Key:       "home.hero.subtitle",
			Content:   "hidden",
			GroupName: "home",
			IsActive:  &inactive,
		})
		require.NoError(t, err)

		result, err := svc.GetContentByKeys(ctx, []string{"home.hero.title", "home.hero.subtitle", "nope"})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Print everything", result["home.hero.title"].Content)
	})

	t.Run("group listing is ordered and active only", func(t *testing.T) {
		entries, err := svc.ListContentByGroup(ctx, "home")
		require.NoError(t, err)
		require.Len(t, entries, 1)

		groups, err := svc.ListContentGroups(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, groups)
	})

	t.Run("admin listing includes inactive entries", func(t *testing.T) {
		entries, err := svc.ListContent(ctx, "home")
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		all, err := svc.ListContent(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteContent(ctx, "home.hero.title"))
		err := svc.DeleteContent(ctx, "home.hero.title")
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}

func TestPages(t *testing.T) {
	svc := setupContentTest(t)
	ctx := context.Background()

	page, err := svc.UpsertPage(ctx, &models.UpsertPageRequest{
		Slug:    "about",
		Title:   "About us",
		Content: map[string]any{"body": "We print things."},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", page.PageType)

	t.Run("public read hides inactive pages", func(t *testing.T) {
		inactive := false
		_, err := svc.UpsertPage(ctx, &models.UpsertPageRequest{
			Slug:     "about",
			Title:    "About us",
			IsActive: &inactive,
		})
		require.NoError(t, err)

		_, err = svc.GetPage(ctx, "about", true)
		assert.Equal(t, 404, apierr.StatusCode(err))

		got, err := svc.GetPage(ctx, "about", false)
		require.NoError(t, err)
		assert.Equal(t, page.ID, got.ID)
	})

	t.Run("listing respects the active filter", func(t *testing.T) {
		pages, err := svc.ListPages(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, pages)

		pages, err = svc.ListPages(ctx, false)
		require.NoError(t, err)
		assert.Len(t, pages, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeletePage(ctx, "about"))
		err := svc.DeletePage(ctx, "about")
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}

func TestSettings(t *testing.T) {
	svc := setupContentTest(t)
	ctx := context.Background()

	_, err := svc.UpsertSetting(ctx, &models.UpsertSettingRequest{
		Key: "site_name", Value: "Printing Platform",
	})
	require.NoError(t, err)

	private := false
	_, err = svc.UpsertSetting(ctx, &models.UpsertSettingRequest{
		Key: "smtp_host", Value: "mail.internal", IsPublic: &private,
	})
	require.NoError(t, err)

	t.Run("public map hides private settings", func(t *testing.T) {
		public, err := svc.PublicSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Printing Platform", public["site_name"])
		_, leaked := public["smtp_host"]
		assert.False(t, leaked)
	})

	t.Run("admin listing shows everything", func(t *testing.T) {
		settings, err := svc.ListSettings(ctx)
		require.NoError(t, err)
		assert.Len(t, settings, 2)
	})

	t.Run("upsert keeps the row", func(t *testing.T) {
		updated, err := svc.UpsertSetting(ctx, &models.UpsertSettingRequest{
			Key: "site_name", Value: "Printshop",
		})
		require.NoError(t, err)
		assert.Equal(t, "Printshop", updated.Value)

		settings, err := svc.ListSettings(ctx)
		require.NoError(t, err)
		assert.Len(t, settings, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteSetting(ctx, "smtp_host"))
		err := svc.DeleteSetting(ctx, "smtp_host")
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}
