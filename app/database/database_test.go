package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/views"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return db
}

type stepClock struct {
	current time.Time
}

func (c *stepClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func TestNewConnectionRequiresPath(t *testing.T) {
	_, err := NewConnection("  ")
	assert.Error(t, err)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestArticleStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore(newTestDB(t))

	article := &news.Article{
		Title:    "Eleições 2026",
		Slug:     "eleicoes-2026",
		Content:  "# Title\n\nBody",
		Category: news.CategoryPolitica,
		Location: "brasil",
	}
	require.NoError(t, store.CreateArticle(ctx, article))
	assert.NotEmpty(t, article.ID)
	assert.False(t, article.CreatedAt.IsZero())

	got, err := store.GetArticleBySlug(ctx, "eleicoes-2026")
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)
	assert.Equal(t, "Eleições 2026", got.Title)
	assert.Equal(t, news.CategoryPolitica, got.Category)
	assert.Equal(t, article.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	got.Title = "Eleições 2026: resultado"
	got.IsBreaking = true
	require.NoError(t, store.UpdateArticle(ctx, got))

	updated, err := store.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eleições 2026: resultado", updated.Title)
	assert.True(t, updated.IsBreaking)

	require.NoError(t, store.IncrementViews(ctx, article.ID))
	require.NoError(t, store.IncrementViews(ctx, article.ID))
	updated, err = store.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Views)

	require.NoError(t, store.DeleteArticle(ctx, article.ID))
	_, err = store.GetArticle(ctx, article.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore(newTestDB(t))

	_, err := store.GetArticleBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.UpdateArticle(ctx, &news.Article{ID: "missing", Title: "x", Slug: "x"}), ErrNotFound)
	assert.ErrorIs(t, store.DeleteArticle(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, store.IncrementViews(ctx, "missing"), ErrNotFound)
}

func TestArticleStoreDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore(newTestDB(t))

	require.NoError(t, store.CreateArticle(ctx, &news.Article{Title: "A", Slug: "same", Category: news.CategoryMundo}))
	err := store.CreateArticle(ctx, &news.Article{Title: "B", Slug: "same", Category: news.CategoryMundo})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestArticleStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore(newTestDB(t))
	clock := &stepClock{current: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.now

	fixtures := []news.Article{
		{Title: "Mercado em alta", Slug: "a", Category: news.CategoryEconomia, Location: "brasil", IsFeatured: true},
		{Title: "Crise global", Slug: "b", Category: news.CategoryMundo, Location: "mundo", IsBreaking: true},
		{Title: "Juros sobem", Slug: "c", Category: news.CategoryEconomia, Location: "brasil", Summary: "Banco central decide"},
		{Title: "Vacinas", Slug: "d", Category: news.CategorySaude, Location: "brasil", IsEditorChoice: true},
	}
	for i := range fixtures {
		require.NoError(t, store.CreateArticle(ctx, &fixtures[i]))
	}

	yes := true

	tests := []struct {
		name     string
		filter   news.Filter
		expected []string
	}{
		{"all newest first", news.Filter{}, []string{"d", "c", "b", "a"}},
		{"category", news.Filter{Category: news.CategoryEconomia}, []string{"c", "a"}},
		{"location", news.Filter{Location: "mundo"}, []string{"b"}},
		{"featured", news.Filter{Featured: &yes}, []string{"a"}},
		{"breaking", news.Filter{Breaking: &yes}, []string{"b"}},
		{"editor choice", news.Filter{EditorChoice: &yes}, []string{"d"}},
		{"search summary", news.Filter{Query: "central"}, []string{"c"}},
		{"exclude", news.Filter{Category: news.CategoryEconomia, ExcludeID: fixtures[2].ID}, []string{"a"}},
		{"limit", news.Filter{Limit: 2}, []string{"d", "c"}},
		{"offset", news.Filter{Limit: 2, Offset: 2}, []string{"b", "a"}},
		{"offset without limit", news.Filter{Offset: 3}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, err := store.ListArticles(ctx, tt.filter)
			require.NoError(t, err)

			var slugs []string
			for _, a := range articles {
				slugs = append(slugs, a.Slug)
			}
			assert.Equal(t, tt.expected, slugs)
		})
	}

	count, err := store.CountArticles(ctx, news.Filter{Category: news.CategoryEconomia})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBannerStore(t *testing.T) {
	ctx := context.Background()
	store := NewBannerStore(newTestDB(t))
	clock := &stepClock{current: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.now

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &banner.Banner{Title: "First", ImageURL: "https://cdn/1.png", Position: banner.PositionNewsArticle, Priority: 2, IsActive: true, ExpiresAt: &expires}
	second := &banner.Banner{Title: "Second", ImageURL: "https://cdn/2.png", Position: banner.PositionNewsArticle, Priority: 2, IsActive: true}
	require.NoError(t, store.CreateBanner(ctx, first))
	require.NoError(t, store.CreateBanner(ctx, second))

	list, err := store.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	require.NotNil(t, list[0].ExpiresAt)
	assert.True(t, list[0].ExpiresAt.Equal(expires))
	assert.Nil(t, list[1].ExpiresAt)

	winners := banner.Select(list, clock.current)
	assert.Equal(t, first.ID, winners[banner.PositionNewsArticle].ID)

	second.Priority = 5
	second.IsActive = false
	require.NoError(t, store.UpdateBanner(ctx, second))

	got, err := store.GetBanner(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Priority)
	assert.False(t, got.IsActive)

	require.NoError(t, store.DeleteBanner(ctx, first.ID))
	_, err = store.GetBanner(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteBanner(ctx, first.ID), ErrNotFound)
}

func TestViewStore(t *testing.T) {
	ctx := context.Background()
	store := NewViewStore(newTestDB(t))
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []views.ViewEvent{
		{ArticleID: "a", SessionID: "s1", ViewedAt: base},
		{ArticleID: "a", SessionID: "s2", ViewedAt: base.Add(10 * time.Minute)},
		{ArticleID: "b", SessionID: "s3", ViewedAt: base.Add(20 * time.Minute)},
	}
	for _, e := range events {
		require.NoError(t, store.AppendView(ctx, e))
	}

	total, err := store.CountViews(ctx, views.ViewFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	since := base.Add(5 * time.Minute)
	recent, err := store.CountViews(ctx, views.ViewFilter{ArticleID: "a", Since: &since})
	require.NoError(t, err)
	assert.Equal(t, 1, recent)

	capped, err := store.CountViews(ctx, views.ViewFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, capped)

	list, err := store.ListViews(ctx, views.ViewFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].SessionID)
	assert.True(t, list[0].ViewedAt.Equal(base.Add(10*time.Minute)))

	counts, err := store.CountByArticle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestTrackerAgainstViewStore(t *testing.T) {
	ctx := context.Background()
	tracker := views.NewTracker(NewViewStore(newTestDB(t)), time.UTC)

	first, err := tracker.Track(ctx, "article")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := tracker.Track(ctx, "article")
	require.NoError(t, err)
	assert.False(t, second)

	count, err := tracker.CountForArticle(ctx, "article")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
