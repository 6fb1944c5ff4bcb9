package banner

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/impacto-diario/app/ads"
)

type Position string

const (
	PositionHomepageHero    Position = "homepage-hero"
	PositionHomepageSidebar Position = "homepage-sidebar"
	PositionHomepageBottom  Position = "homepage-bottom"
	PositionNewsArticle     Position = "news-article"
	PositionUltimasSidebar  Position = "ultimas-sidebar"
)

// Slot describes a fixed placement on the site.
type Slot struct {
	Position    Position `json:"position"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Pages       []string `json:"pages"`
}

var Slots = []Slot{
	{PositionHomepageHero, "Homepage - Hero Section", "Main banner in the homepage hero section", 400, 200, []string{"Homepage"}},
	{PositionHomepageSidebar, "Homepage - Sidebar", "Banner in the homepage sidebar", 350, 180, []string{"Homepage"}},
	{PositionHomepageBottom, "Homepage - Footer", "Banner at the bottom of the homepage", 728, 90, []string{"Homepage"}},
	{PositionNewsArticle, "News Article", "Banner between paragraphs of individual articles", 500, 150, []string{"News pages"}},
	{PositionUltimasSidebar, "Latest - Sidebar", "Sticky banner in the latest news sidebar", 300, 600, []string{"Latest page"}},
}

const (
	fallbackWidth  = 300
	fallbackHeight = 250
)

func ParsePosition(s string) (Position, error) {
	for _, slot := range Slots {
		if string(slot.Position) == s {
			return slot.Position, nil
		}
	}
	return "", fmt.Errorf("unknown banner position: %q", s)
}

func (p Position) Slot() (Slot, bool) {
	for _, slot := range Slots {
		if slot.Position == p {
			return slot, true
		}
	}
	return Slot{}, false
}

// Dimensions returns the pixel size the slot renders at.
func (p Position) Dimensions() (int, int) {
	if slot, ok := p.Slot(); ok {
		return slot.Width, slot.Height
	}
	return fallbackWidth, fallbackHeight
}

type Banner struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	LinkURL     string     `json:"link_url,omitempty"`
	Position    Position   `json:"position"`
	Priority    int        `json:"priority"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Clicks      int        `json:"clicks"`
	Impressions int        `json:"impressions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Live reports whether the banner is active and unexpired at now.
func (b Banner) Live(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

func (b Banner) Ad() *ads.AdDescriptor {
	return &ads.AdDescriptor{
		ImageURL: b.ImageURL,
		LinkURL:  b.LinkURL,
		AltText:  b.Title,
	}
}

func (b *Banner) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	b.ImageURL = strings.TrimSpace(b.ImageURL)
	b.LinkURL = strings.TrimSpace(b.LinkURL)

	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.ImageURL == "" {
		return fmt.Errorf("image URL or uploaded file is required")
	}
	if _, err := ParsePosition(string(b.Position)); err != nil {
		return err
	}
	if b.Priority <= 0 {
		b.Priority = 1
	}
	return nil
}
