package api

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/lysyi3m/impacto-diario/app/assets"
	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/feed"
	"github.com/lysyi3m/impacto-diario/app/importer"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/settings"
	"github.com/lysyi3m/impacto-diario/app/tasks"
	"github.com/lysyi3m/impacto-diario/app/views"
)

type GeneratorInterface interface {
	Run(site settings.SiteSettings, articles []news.Article) (string, error)
}

type RendererInterface interface {
	Render(article news.Article) news.Rendered
}

type ResolverInterface interface {
	tasks.BannerRefresher
	GetBanner(position banner.Position) *banner.Banner
	Winners() map[banner.Position]banner.Banner
	RefreshedAt() time.Time
}

type TrackerInterface interface {
	tasks.ViewTracker
	Stats(ctx context.Context, articleCount int) (views.Stats, error)
	CountForArticle(ctx context.Context, articleID string) (int, error)
	MostViewed(ctx context.Context, limit int) ([]views.ArticleCount, error)
	Daily(ctx context.Context, days int) ([]views.DayCount, error)
}

type SettingsInterface interface {
	Get() settings.SiteSettings
	Save(next settings.SiteSettings) error
	SiteInfo() settings.SiteInfo
	SocialLinks() settings.SocialLinks
}

type UploaderInterface interface {
	Upload(ctx context.Context, r io.Reader, filename string, size int64, contentType, folder string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type ImporterInterface interface {
	Run(ctx context.Context, rawURL string) (*news.Article, error)
}

var (
	_ GeneratorInterface = (*feed.Generator)(nil)
	_ RendererInterface  = (*news.Renderer)(nil)
	_ ResolverInterface  = (*banner.Resolver)(nil)
	_ TrackerInterface   = (*views.Tracker)(nil)
	_ SettingsInterface  = (*settings.Service)(nil)
	_ UploaderInterface  = (*assets.Uploader)(nil)
	_ ImporterInterface  = (*importer.Importer)(nil)
)

type ArticleListResponse struct {
	Articles []news.Article `json:"articles"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
}

type ArticleResponse struct {
	news.Rendered
	Related []news.Article `json:"related"`
}

type HomeResponse struct {
	Urgent       *news.Article                    `json:"urgent"`
	Featured     []news.Article                   `json:"featured"`
	Latest       []news.Article                   `json:"latest"`
	Popular      []news.Article                   `json:"popular"`
	EditorChoice []news.Article                   `json:"editor_choice"`
	Trending     []CategoryResponse               `json:"trending"`
	Sections     map[news.Category][]news.Article `json:"sections"`
}

type CategoryResponse struct {
	Key   news.Category `json:"key"`
	Name  string        `json:"name"`
	Count int           `json:"count"`
}

type SiteResponse struct {
	settings.SiteInfo
	SocialMedia settings.SocialLinks `json:"social_media"`
}

type MostViewedResponse struct {
	ArticleID string `json:"news_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Views     int    `json:"views"`
}

// ArticleRequest is the admin payload for creating and editing articles.
// Absent fields keep their current value on update.
type ArticleRequest struct {
	Title          *string    `json:"title"`
	Slug           *string    `json:"slug"`
	Summary        *string    `json:"summary"`
	Content        *string    `json:"content"`
	ImageURL       *string    `json:"image_url"`
	ImageCredits   *string    `json:"image_credits"`
	Category       *string    `json:"category"`
	Location       *string    `json:"location"`
	Author         *string    `json:"author"`
	IsFeatured     *bool      `json:"is_featured"`
	IsBreaking     *bool      `json:"is_breaking"`
	IsEditorChoice *bool      `json:"is_editor_choice"`
	PublishedAt    *time.Time `json:"published_at"`
}

func (r ArticleRequest) apply(a *news.Article) {
	setString(&a.Title, r.Title)
	setString(&a.Slug, r.Slug)
	setString(&a.Summary, r.Summary)
	setString(&a.Content, r.Content)
	setString(&a.ImageURL, r.ImageURL)
	setString(&a.ImageCredits, r.ImageCredits)
	setString(&a.Location, r.Location)
	setString(&a.Author, r.Author)
	if r.Category != nil {
		a.Category = news.Category(strings.ToLower(strings.TrimSpace(*r.Category)))
	}
	setBool(&a.IsFeatured, r.IsFeatured)
	setBool(&a.IsBreaking, r.IsBreaking)
	setBool(&a.IsEditorChoice, r.IsEditorChoice)
	if r.PublishedAt != nil {
		a.PublishedAt = *r.PublishedAt
	}
}

type BannerRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ImageURL       *string    `json:"image_url"`
	LinkURL        *string    `json:"link_url"`
	Position       *string    `json:"position"`
	Priority       *int       `json:"priority"`
	IsActive       *bool      `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at"`
	ClearExpiresAt bool       `json:"clear_expires_at"`
}

func (r BannerRequest) apply(b *banner.Banner) {
	setString(&b.Title, r.Title)
	setString(&b.Description, r.Description)
	setString(&b.ImageURL, r.ImageURL)
	setString(&b.LinkURL, r.LinkURL)
	if r.Position != nil {
		b.Position = banner.Position(strings.TrimSpace(*r.Position))
	}
	if r.Priority != nil {
		b.Priority = *r.Priority
	}
	setBool(&b.IsActive, r.IsActive)
	if r.ExpiresAt != nil {
		expiresAt := *r.ExpiresAt
		b.ExpiresAt = &expiresAt
	}
	if r.ClearExpiresAt {
		b.ExpiresAt = nil
	}
}

type ImportRequest struct {
	URL string `json:"url" binding:"required"`
}

type DeleteAssetRequest struct {
	URL string `json:"url" binding:"required"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
