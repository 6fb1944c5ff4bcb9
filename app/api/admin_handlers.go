package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/impacto-diario/app/assets"
	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/settings"
	"github.com/lysyi3m/impacto-diario/app/tasks"
)

const (
	defaultMostViewed = 10
	defaultDailyDays  = 7
	maxDailyDays      = 90
)

func (h *Handler) APIGetNews(c *gin.Context) {
	article, err := h.articles.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "get_article", err, "Article not found")
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) APICreateNews(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var article news.Article
	req.apply(&article)
	if article.Category == "" {
		article.Category = news.Category(h.settings.Get().Content.DefaultCategory)
	}

	if err := article.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.articles.CreateArticle(c.Request.Context(), &article); err != nil {
		respondError(c, "create_article", err, "")
		return
	}

	slog.Info("Article created", "id", article.ID, "slug", article.Slug)

	c.JSON(http.StatusCreated, article)
}

func (h *Handler) APIUpdateNews(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()

	article, err := h.articles.GetArticle(ctx, c.Param("id"))
	if err != nil {
		respondError(c, "get_article", err, "Article not found")
		return
	}

	req.apply(article)
	if err := article.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.articles.UpdateArticle(ctx, article); err != nil {
		respondError(c, "update_article", err, "Article not found")
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) APIDeleteNews(c *gin.Context) {
	id := c.Param("id")
	if err := h.articles.DeleteArticle(c.Request.Context(), id); err != nil {
		respondError(c, "delete_article", err, "Article not found")
		return
	}

	slog.Info("Article deleted", "id", id)

	c.Status(http.StatusNoContent)
}

// APIImportNews returns a draft built from a remote page. Nothing is stored.
func (h *Handler) APIImportNews(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	draft, err := h.importer.Run(c.Request.Context(), req.URL)
	if err != nil {
		slog.Warn("Article import failed", "url", req.URL, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if def := h.settings.Get().Content.DefaultCategory; def != "" {
		draft.Category = news.Category(def)
	}

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) APIListBanners(c *gin.Context) {
	banners, err := h.banners.ListBanners(c.Request.Context())
	if err != nil {
		respondError(c, "list_banners", err, "")
		return
	}

	if banners == nil {
		banners = []banner.Banner{}
	}

	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
		"total":   len(banners),
	})
}

func (h *Handler) APIGetBanner(c *gin.Context) {
	b, err := h.banners.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "get_banner", err, "Banner not found")
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) APICreateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	b := banner.Banner{IsActive: true}
	req.apply(&b)
	if err := b.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.banners.CreateBanner(c.Request.Context(), &b); err != nil {
		respondError(c, "create_banner", err, "")
		return
	}

	h.enqueueBannerRefresh()

	c.JSON(http.StatusCreated, b)
}

func (h *Handler) APIUpdateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()

	b, err := h.banners.GetBanner(ctx, c.Param("id"))
	if err != nil {
		respondError(c, "get_banner", err, "Banner not found")
		return
	}

	req.apply(b)
	if err := b.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.banners.UpdateBanner(ctx, b); err != nil {
		respondError(c, "update_banner", err, "Banner not found")
		return
	}

	h.enqueueBannerRefresh()

	c.JSON(http.StatusOK, b)
}

func (h *Handler) APIToggleBanner(c *gin.Context) {
	ctx := c.Request.Context()

	b, err := h.banners.GetBanner(ctx, c.Param("id"))
	if err != nil {
		respondError(c, "get_banner", err, "Banner not found")
		return
	}

	b.IsActive = !b.IsActive
	if err := h.banners.UpdateBanner(ctx, b); err != nil {
		respondError(c, "update_banner", err, "Banner not found")
		return
	}

	h.enqueueBannerRefresh()

	c.JSON(http.StatusOK, b)
}

func (h *Handler) APIDeleteBanner(c *gin.Context) {
	if err := h.banners.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "delete_banner", err, "Banner not found")
		return
	}

	h.enqueueBannerRefresh()

	c.Status(http.StatusNoContent)
}

// APIRefreshBanners recomputes the winners synchronously.
func (h *Handler) APIRefreshBanners(c *gin.Context) {
	positions := h.resolver.Refresh(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"positions":    positions,
		"refreshed_at": h.resolver.RefreshedAt(),
	})
}

func (h *Handler) APIListBannerSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": banner.Slots})
}

func (h *Handler) enqueueBannerRefresh() {
	if err := h.scheduler.EnqueueTask(tasks.NewRefreshBannersTask(h.resolver)); err != nil {
		slog.Warn("Failed to enqueue RefreshBannersTask", "error", err)
	}
}

func (h *Handler) APIUploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), file, fileHeader.Filename, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"), c.PostForm("folder"))
	if err != nil {
		if errors.Is(err, assets.ErrNotImage) || errors.Is(err, assets.ErrTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Asset upload failed", "filename", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *Handler) APIDeleteAsset(c *gin.Context) {
	var req DeleteAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if _, err := assets.KeyFromURL(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uploader.Delete(c.Request.Context(), req.URL); err != nil {
		slog.Error("Asset delete failed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) APIGetViewStats(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.articles.CountArticles(ctx, news.Filter{})
	if err != nil {
		respondError(c, "count_articles", err, "")
		return
	}

	stats, err := h.tracker.Stats(ctx, count)
	if err != nil {
		respondError(c, "view_stats", err, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIGetMostViewed(c *gin.Context) {
	ctx := c.Request.Context()

	limit := getQueryInt(c, "limit", defaultMostViewed)
	if limit <= 0 || limit > maxLimit {
		limit = defaultMostViewed
	}

	ranked, err := h.tracker.MostViewed(ctx, limit)
	if err != nil {
		respondError(c, "most_viewed", err, "")
		return
	}

	res := make([]MostViewedResponse, 0, len(ranked))
	for _, entry := range ranked {
		item := MostViewedResponse{ArticleID: entry.ArticleID, Views: entry.Views}
		if article, err := h.articles.GetArticle(ctx, entry.ArticleID); err == nil {
			item.Title = article.Title
			item.Slug = article.Slug
		}
		res = append(res, item)
	}

	c.JSON(http.StatusOK, gin.H{"articles": res})
}

func (h *Handler) APIGetDailyViews(c *gin.Context) {
	days := getQueryInt(c, "days", defaultDailyDays)
	if days <= 0 || days > maxDailyDays {
		days = defaultDailyDays
	}

	daily, err := h.tracker.Daily(c.Request.Context(), days)
	if err != nil {
		respondError(c, "daily_views", err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": daily})
}

func (h *Handler) APIGetArticleViews(c *gin.Context) {
	id := c.Param("id")

	count, err := h.tracker.CountForArticle(c.Request.Context(), id)
	if err != nil {
		respondError(c, "article_views", err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news_id": id,
		"views":   count,
	})
}

func (h *Handler) APIGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get())
}

func (h *Handler) APIUpdateSettings(c *gin.Context) {
	next := h.settings.Get()
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settings.Save(next); err != nil {
		var validationErr *settings.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		slog.Error("Failed to save settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	slog.Info("Site settings updated", "site_name", next.SiteName)

	c.JSON(http.StatusOK, h.settings.Get())
}
