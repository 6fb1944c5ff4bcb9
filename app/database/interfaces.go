package database

import (
	"context"

	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/views"
)

type ArticleRepository interface {
	GetArticle(ctx context.Context, id string) (*news.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*news.Article, error)
	ListArticles(ctx context.Context, filter news.Filter) ([]news.Article, error)
	CountArticles(ctx context.Context, filter news.Filter) (int, error)

	CreateArticle(ctx context.Context, article *news.Article) error
	UpdateArticle(ctx context.Context, article *news.Article) error
	DeleteArticle(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type BannerRepository interface {
	banner.Source

	GetBanner(ctx context.Context, id string) (*banner.Banner, error)
	CreateBanner(ctx context.Context, b *banner.Banner) error
	UpdateBanner(ctx context.Context, b *banner.Banner) error
	DeleteBanner(ctx context.Context, id string) error
}

type ViewRepository interface {
	views.Log
}
