package ads

import (
	"html"
	"strconv"
	"strings"

	"github.com/lysyi3m/impacto-diario/app/markup"
)

const (
	MaxAds = 2

	// Articles with at most this many text paragraphs get a single ad
	// appended after the body.
	shortArticleParagraphs = 2

	slotID      = "news-article"
	blockWidth  = 500
	blockHeight = 150

	placeholderHeight = 128
)

// AdDescriptor is one placeable advertisement. An empty LinkURL renders the
// image without an anchor.
type AdDescriptor struct {
	ImageURL string
	LinkURL  string
	AltText  string
}

// Placements returns the text paragraph indices after which an ad block is
// inserted, in ascending order. For short articles the single index is the
// last paragraph and the block is appended after the whole body.
func Placements(n int) []int {
	if n <= 0 {
		return nil
	}

	if n <= shortArticleParagraphs {
		return []int{n - 1}
	}

	var points []int
	if n >= 4 {
		points = append(points, n/2-1)
	}
	if n >= 6 {
		points = append(points, n*3/4-1)
	}

	// Nothing qualified (n == 3): force one block in front of paragraph n/2.
	if len(points) == 0 {
		points = append(points, n/2-1)
	}

	if len(points) > MaxAds {
		points = points[:MaxAds]
	}

	return points
}

// Interleave joins the rendered paragraphs and inserts ad blocks at the
// positions chosen by Placements. Headings are carried along but not counted.
func Interleave(paragraphs []markup.Paragraph, ad *AdDescriptor) string {
	if len(paragraphs) == 0 {
		return ""
	}

	block := Block(ad)
	textCount := 0
	for _, p := range paragraphs {
		if !p.Heading {
			textCount++
		}
	}

	var b strings.Builder

	if textCount <= shortArticleParagraphs {
		for _, p := range paragraphs {
			b.WriteString(p.HTML)
		}
		b.WriteString(block)
		return b.String()
	}

	after := make(map[int]bool, MaxAds)
	for _, idx := range Placements(textCount) {
		after[idx] = true
	}

	inserted := 0
	textIndex := -1
	for _, p := range paragraphs {
		b.WriteString(p.HTML)
		if p.Heading {
			continue
		}
		textIndex++
		if after[textIndex] && inserted < MaxAds {
			b.WriteString(block)
			inserted++
		}
	}

	return b.String()
}

// Block renders a single ad block. A nil descriptor yields the placeholder
// panel.
func Block(ad *AdDescriptor) string {
	if ad == nil || ad.ImageURL == "" {
		return placeholder()
	}

	frame := `<div style="width: ` + strconv.Itoa(blockWidth) + `px; height: ` + strconv.Itoa(blockHeight) +
		`px; margin: 0 auto; overflow: hidden;">` +
		`<img src="` + html.EscapeString(ad.ImageURL) + `" alt="` + html.EscapeString(ad.AltText) +
		`" width="` + strconv.Itoa(blockWidth) + `" height="` + strconv.Itoa(blockHeight) +
		`" style="width: 100%; height: 100%; object-fit: cover; object-position: center; display: block;" />` +
		`</div>`

	if ad.LinkURL != "" {
		frame = `<a href="` + html.EscapeString(ad.LinkURL) + `" target="_blank" rel="noopener noreferrer">` + frame + `</a>`
	}

	return `<div class="ad-block" data-ad-slot="` + slotID + `">` + frame + `</div>`
}

func placeholder() string {
	return `<div class="ad-block ad-placeholder" data-ad-slot="` + slotID + `">` +
		`<div class="ad-label">Publicidade</div>` +
		`<div style="height: ` + strconv.Itoa(placeholderHeight) + `px; display: flex; align-items: center; justify-content: center;">` +
		`<span>Advertisement</span></div></div>`
}
