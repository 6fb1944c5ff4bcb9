package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/database"
	"github.com/lysyi3m/impacto-diario/app/feed"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/tasks"
)

const (
	defaultLimit   = 20
	maxLimit       = 100
	relatedLimit   = 3
	homeWindow     = 100
	homeListLimit  = 6
	homeRankLimit  = 5
	sectionLimit   = 4
	editorialLimit = 4
)

type Handler struct {
	articles  database.ArticleRepository
	banners   database.BannerRepository
	resolver  ResolverInterface
	renderer  RendererInterface
	tracker   TrackerInterface
	settings  SettingsInterface
	uploader  UploaderInterface
	importer  ImporterInterface
	generator GeneratorInterface
	scheduler tasks.TaskSchedulerInterface
}

func NewHandler(articles database.ArticleRepository, banners database.BannerRepository,
	resolver ResolverInterface, renderer RendererInterface, tracker TrackerInterface,
	settings SettingsInterface, uploader UploaderInterface, importer ImporterInterface,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		articles:  articles,
		banners:   banners,
		resolver:  resolver,
		renderer:  renderer,
		tracker:   tracker,
		settings:  settings,
		uploader:  uploader,
		importer:  importer,
		generator: feed.NewGenerator(),
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	count, err := h.articles.CountArticles(c.Request.Context(), news.Filter{})
	if err != nil {
		slog.Error("Health check failed", "error", err)
		health["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	health["status"] = "healthy"
	health["articles"] = count
	health["banner_positions"] = len(h.resolver.Winners())
	if refreshedAt := h.resolver.RefreshedAt(); !refreshedAt.IsZero() {
		health["banners_refreshed_at"] = refreshedAt.In(time.Local).Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetFeed(c *gin.Context) {
	articles, err := h.articles.ListArticles(c.Request.Context(), news.Filter{Limit: feed.MaxItems})
	if err != nil {
		respondError(c, "list_feed_articles", err, "")
		return
	}

	rss, err := h.generator.Run(h.settings.Get(), articles)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) ListNews(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	articles, err := h.articles.ListArticles(ctx, filter)
	if err != nil {
		respondError(c, "list_articles", err, "")
		return
	}

	countFilter := filter
	countFilter.Limit, countFilter.Offset = 0, 0
	total, err := h.articles.CountArticles(ctx, countFilter)
	if err != nil {
		respondError(c, "count_articles", err, "")
		return
	}

	if articles == nil {
		articles = []news.Article{}
	}

	c.JSON(http.StatusOK, ArticleListResponse{
		Articles: articles,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// GetNews renders a published article with its in-content banners and
// queues a view for it.
func (h *Handler) GetNews(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	article, err := h.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		respondError(c, "get_article_by_slug", err, "Article not found")
		return
	}

	related, err := h.articles.ListArticles(ctx, news.Filter{
		Category:  article.Category,
		ExcludeID: article.ID,
		Limit:     relatedLimit,
	})
	if err != nil {
		slog.Warn("Failed to load related articles", "article", article.ID, "error", err)
	}
	if related == nil {
		related = []news.Article{}
	}

	if err := h.scheduler.EnqueueTask(tasks.NewTrackViewTask(article.ID, h.tracker, h.articles)); err != nil {
		slog.Warn("Failed to enqueue TrackViewTask", "article", article.ID, "error", err)
	}

	c.JSON(http.StatusOK, ArticleResponse{
		Rendered: h.renderer.Render(*article),
		Related:  related,
	})
}

// GetHome assembles the homepage sections from the most recent articles.
func (h *Handler) GetHome(c *gin.Context) {
	articles, err := h.articles.ListArticles(c.Request.Context(), news.Filter{Limit: homeWindow})
	if err != nil {
		respondError(c, "list_home_articles", err, "")
		return
	}

	trending := news.TrendingCategories(articles)

	res := HomeResponse{
		Urgent:       news.Urgent(articles),
		Featured:     news.Featured(articles),
		Latest:       news.Latest(articles, homeListLimit),
		Popular:      news.Popular(articles, homeRankLimit),
		EditorChoice: news.EditorChoice(articles, editorialLimit),
		Trending:     make([]CategoryResponse, 0, len(trending)),
		Sections:     make(map[news.Category][]news.Article),
	}

	for _, category := range trending {
		section := news.ByCategory(articles, category, sectionLimit)
		res.Trending = append(res.Trending, CategoryResponse{
			Key:   category,
			Name:  category.DisplayName(),
			Count: len(section),
		})
		res.Sections[category] = section
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories := make([]CategoryResponse, 0, len(news.Categories))
	for _, category := range news.Categories {
		count, err := h.articles.CountArticles(ctx, news.Filter{Category: category})
		if err != nil {
			respondError(c, "count_category_articles", err, "")
			return
		}
		categories = append(categories, CategoryResponse{
			Key:   category,
			Name:  category.DisplayName(),
			Count: count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) ListActiveBanners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"banners":      h.resolver.Winners(),
		"refreshed_at": h.resolver.RefreshedAt(),
	})
}

func (h *Handler) GetBannerForPosition(c *gin.Context) {
	position, err := banner.ParsePosition(c.Param("position"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := h.resolver.GetBanner(position)
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No banner for position"})
		return
	}

	width, height := position.Dimensions()
	c.JSON(http.StatusOK, gin.H{
		"banner": b,
		"width":  width,
		"height": height,
	})
}

func (h *Handler) GetSite(c *gin.Context) {
	c.JSON(http.StatusOK, SiteResponse{
		SiteInfo:    h.settings.SiteInfo(),
		SocialMedia: h.settings.SocialLinks(),
	})
}

// respondError maps store errors onto response states. notFound is the
// message sent for database.ErrNotFound.
func respondError(c *gin.Context, operation string, err error, notFound string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists"})
	default:
		slog.Error("Database error", "operation", operation, "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

func parseFilter(c *gin.Context) (news.Filter, error) {
	filter := news.Filter{
		Location:  strings.TrimSpace(c.Query("location")),
		Query:     strings.TrimSpace(c.Query("q")),
		ExcludeID: c.Query("exclude"),
		Limit:     getQueryInt(c, "limit", defaultLimit),
		Offset:    getQueryInt(c, "offset", 0),
	}

	if filter.Limit <= 0 || filter.Limit > maxLimit {
		filter.Limit = defaultLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if raw := c.Query("category"); raw != "" {
		category, err := news.ParseCategory(raw)
		if err != nil {
			return news.Filter{}, err
		}
		filter.Category = category
	}

	flags := map[string]**bool{
		"featured":      &filter.Featured,
		"breaking":      &filter.Breaking,
		"editor_choice": &filter.EditorChoice,
	}
	for name, dst := range flags {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return news.Filter{}, fmt.Errorf("invalid %s flag: %q", name, raw)
		}
		*dst = &value
	}

	return filter, nil
}

func getQueryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
