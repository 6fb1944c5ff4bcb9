package news

import (
	"github.com/lysyi3m/impacto-diario/app/ads"
	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/markup"
)

type BannerLookup interface {
	GetBanner(position banner.Position) *banner.Banner
}

// Renderer turns stored articles into display HTML with the article-slot
// banner interleaved between paragraphs.
type Renderer struct {
	banners BannerLookup
}

func NewRenderer(banners BannerLookup) *Renderer {
	return &Renderer{banners: banners}
}

func (r *Renderer) Render(article Article) Rendered {
	var ad *ads.AdDescriptor
	if r.banners != nil {
		if b := r.banners.GetBanner(banner.PositionNewsArticle); b != nil {
			ad = b.Ad()
		}
	}

	return Rendered{
		Article:      article,
		CategoryName: article.Category.DisplayName(),
		HTML:         ads.Interleave(markup.Paragraphs(article.Content), ad),
	}
}
