package banner

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockSource struct {
	banners []Banner
	err     error
	calls   int
}

func (m *mockSource) ListBanners(ctx context.Context) ([]Banner, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.banners, nil
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestResolver(source Source) *Resolver {
	r := NewResolver(source)
	r.now = func() time.Time { return testNow }
	return r
}

func TestSelectHighestPriority(t *testing.T) {
	banners := []Banner{
		{ID: "low", Position: "x", Priority: 1, IsActive: true},
		{ID: "high", Position: "x", Priority: 5, IsActive: true},
	}

	winners := Select(banners, testNow)
	if winners["x"].ID != "high" {
		t.Errorf("Expected priority-5 banner, got %s", winners["x"].ID)
	}
}

func TestSelectTieKeepsFirst(t *testing.T) {
	banners := []Banner{
		{ID: "first", Position: PositionHomepageHero, Priority: 3, IsActive: true},
		{ID: "second", Position: PositionHomepageHero, Priority: 3, IsActive: true},
	}

	winners := Select(banners, testNow)
	if winners[PositionHomepageHero].ID != "first" {
		t.Errorf("Expected first banner on tie, got %s", winners[PositionHomepageHero].ID)
	}
}

func TestSelectExcludesExpiredAndInactive(t *testing.T) {
	past := testNow.Add(-time.Minute)
	future := testNow.Add(time.Hour)

	banners := []Banner{
		{ID: "expired", Position: PositionNewsArticle, Priority: 100, IsActive: true, ExpiresAt: &past},
		{ID: "inactive", Position: PositionNewsArticle, Priority: 50, IsActive: false},
		{ID: "valid", Position: PositionNewsArticle, Priority: 1, IsActive: true, ExpiresAt: &future},
		{ID: "expires-now", Position: PositionHomepageBottom, Priority: 1, IsActive: true, ExpiresAt: &testNow},
	}

	winners := Select(banners, testNow)
	if winners[PositionNewsArticle].ID != "valid" {
		t.Errorf("Expected valid banner, got %s", winners[PositionNewsArticle].ID)
	}
	if _, ok := winners[PositionHomepageBottom]; ok {
		t.Error("Banner expiring exactly now should not be live")
	}
}

func TestResolverGetBanner(t *testing.T) {
	source := &mockSource{banners: []Banner{
		{ID: "hero", Position: PositionHomepageHero, Priority: 2, IsActive: true},
		{ID: "article", Position: PositionNewsArticle, Priority: 1, IsActive: true},
	}}
	r := newTestResolver(source)

	if r.GetBanner(PositionHomepageHero) != nil {
		t.Error("Resolver should be empty before the first refresh")
	}

	if n := r.Refresh(context.Background()); n != 2 {
		t.Errorf("Expected 2 positions, got %d", n)
	}

	if b := r.GetBanner(PositionHomepageHero); b == nil || b.ID != "hero" {
		t.Errorf("Expected hero banner, got %+v", b)
	}
	if b := r.GetBanner(PositionUltimasSidebar); b != nil {
		t.Errorf("Expected no banner, got %+v", b)
	}
	if !r.RefreshedAt().Equal(testNow) {
		t.Errorf("Expected refresh time %v, got %v", testNow, r.RefreshedAt())
	}
}

func TestResolverRequiresExplicitRefresh(t *testing.T) {
	source := &mockSource{banners: []Banner{
		{ID: "old", Position: PositionNewsArticle, Priority: 1, IsActive: true},
	}}
	r := newTestResolver(source)
	r.Refresh(context.Background())

	source.banners = []Banner{
		{ID: "new", Position: PositionNewsArticle, Priority: 9, IsActive: true},
	}

	if b := r.GetBanner(PositionNewsArticle); b.ID != "old" {
		t.Errorf("Expected cached winner until refresh, got %s", b.ID)
	}

	r.Refresh(context.Background())
	if b := r.GetBanner(PositionNewsArticle); b.ID != "new" {
		t.Errorf("Expected new winner after refresh, got %s", b.ID)
	}
	if source.calls != 2 {
		t.Errorf("Expected 2 fetches, got %d", source.calls)
	}
}

func TestResolverFetchFailureClearsWinners(t *testing.T) {
	source := &mockSource{banners: []Banner{
		{ID: "hero", Position: PositionHomepageHero, Priority: 1, IsActive: true},
	}}
	r := newTestResolver(source)
	r.Refresh(context.Background())

	source.err = errors.New("connection refused")
	if n := r.Refresh(context.Background()); n != 0 {
		t.Errorf("Expected 0 positions after failure, got %d", n)
	}
	if len(r.Winners()) != 0 {
		t.Error("Expected empty winners after a failed fetch")
	}
}

func TestPositionCatalog(t *testing.T) {
	tests := []struct {
		position Position
		width    int
		height   int
	}{
		{PositionHomepageHero, 400, 200},
		{PositionHomepageSidebar, 350, 180},
		{PositionHomepageBottom, 728, 90},
		{PositionNewsArticle, 500, 150},
		{PositionUltimasSidebar, 300, 600},
		{Position("unknown"), 300, 250},
	}

	for _, tt := range tests {
		w, h := tt.position.Dimensions()
		if w != tt.width || h != tt.height {
			t.Errorf("%s: expected %dx%d, got %dx%d", tt.position, tt.width, tt.height, w, h)
		}
	}

	if _, err := ParsePosition("sidebar"); err == nil {
		t.Error("Expected error for unknown position")
	}
	if p, err := ParsePosition("news-article"); err != nil || p != PositionNewsArticle {
		t.Errorf("Expected news-article, got %s (%v)", p, err)
	}
}

func TestBannerValidate(t *testing.T) {
	b := Banner{Title: "  Promo ", ImageURL: "https://cdn/x.png", Position: PositionNewsArticle}
	if err := b.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Title != "Promo" || b.Priority != 1 {
		t.Errorf("Expected trimmed title and default priority, got %+v", b)
	}

	invalid := []Banner{
		{ImageURL: "x", Position: PositionNewsArticle},
		{Title: "t", Position: PositionNewsArticle},
		{Title: "t", ImageURL: "x", Position: "nowhere"},
	}
	for i, b := range invalid {
		if err := b.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error", i)
		}
	}
}

func TestBannerAd(t *testing.T) {
	b := Banner{Title: "Sponsor", ImageURL: "https://cdn/x.png", LinkURL: "https://sponsor"}
	ad := b.Ad()
	if ad.ImageURL != b.ImageURL || ad.LinkURL != b.LinkURL || ad.AltText != "Sponsor" {
		t.Errorf("Unexpected descriptor: %+v", ad)
	}
}
