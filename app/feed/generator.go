package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/impacto-diario/app/cfg"
	"github.com/lysyi3m/impacto-diario/app/markup"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/settings"
)

// MaxItems bounds the number of articles written to the channel.
const MaxItems = 50

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders articles as an RSS 2.0 channel. Articles are expected newest
// first; bodies are rendered without advertisement blocks.
func (g *Generator) Run(site settings.SiteSettings, articles []news.Article) (string, error) {
	var buf bytes.Buffer

	baseURL := cfg.Get().PublicURL()

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", site.SiteName, 4)
	g.writeElement(&buf, "link", baseURL, 4)
	g.writeElement(&buf, "description", cmp.Or(site.SiteDescription, site.SiteName), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(baseURL+"/feed.xml")))

	lastBuildDate := time.Now().In(time.Local)
	if len(articles) > 0 {
		lastBuildDate = g.publishedAt(articles[0])
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("ImpactoDiario/%s", cfg.Get().Version), 4)
	g.writeElement(&buf, "language", "pt-BR", 4)
	if site.ContactEmail != "" {
		g.writeElement(&buf, "managingEditor", site.ContactEmail, 4)
	}

	if len(articles) > MaxItems {
		articles = articles[:MaxItems]
	}

	for _, article := range articles {
		g.writeItem(&buf, baseURL, article)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, baseURL string, article news.Article) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(article.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", article.Title, 6)
	if article.Slug != "" {
		g.writeElement(buf, "link", fmt.Sprintf("%s/news/%s", baseURL, article.Slug), 6)
	}

	g.writeElement(buf, "description", cmp.Or(article.Summary, "No description available"), 6)

	if body := markup.Transform(article.Content); body != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(body)
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", g.publishedAt(article).Format(time.RFC1123Z), 6)
	g.writeElement(buf, "author", article.Author, 6)
	g.writeElement(buf, "category", article.Category.DisplayName(), 6)

	if article.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(article.ImageURL),
			html.EscapeString(g.imageType(article.ImageURL))))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) publishedAt(article news.Article) time.Time {
	return cmp.Or(article.PublishedAt, article.CreatedAt).In(time.Local)
}

func (g *Generator) imageType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
