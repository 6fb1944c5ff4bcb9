package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type failingStore struct {
	saveErr error
	saved   int
}

func (f *failingStore) Load() (*SiteSettings, error) { return nil, nil }

func (f *failingStore) Save(s SiteSettings) error {
	f.saved++
	return f.saveErr
}

func TestServiceDefaultsWithoutFile(t *testing.T) {
	service := NewService(NewFileStore(filepath.Join(t.TempDir(), "settings.yml")))
	if err := service.Load(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := service.Get()
	if got.SiteName != "Impacto Diário" {
		t.Errorf("Expected default site name, got '%s'", got.SiteName)
	}
	if got.Content.MaxNewsPerDay != 10 {
		t.Errorf("Expected max news per day 10, got %d", got.Content.MaxNewsPerDay)
	}
	if got.Content.DefaultCategory != "politica" {
		t.Errorf("Expected default category 'politica', got '%s'", got.Content.DefaultCategory)
	}
}

func TestServiceSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yml")
	service := NewService(NewFileStore(path))

	next := Defaults()
	next.SiteName = "  Impacto Diário SP "
	next.SocialMedia.Instagram = "https://instagram.com/impacto"

	if err := service.Save(next); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected settings file to exist: %v", err)
	}

	reloaded := NewService(NewFileStore(path))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if reloaded.SiteInfo().Name != "Impacto Diário SP" {
		t.Errorf("Expected trimmed site name, got '%s'", reloaded.SiteInfo().Name)
	}
	if reloaded.SocialLinks().Instagram != "https://instagram.com/impacto" {
		t.Errorf("Expected instagram link, got '%s'", reloaded.SocialLinks().Instagram)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".settings-*"))
	if len(leftovers) != 0 {
		t.Errorf("Temp files were not cleaned up: %v", leftovers)
	}
}

func TestFileStorePartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	content := `
site_name: "Outro Portal"
social_media:
  twitter: "https://x.com/outro"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if loaded.SiteName != "Outro Portal" {
		t.Errorf("Expected site name from file, got '%s'", loaded.SiteName)
	}
	if loaded.ContactEmail != "contato@impactodiario.com" {
		t.Errorf("Expected default contact email, got '%s'", loaded.ContactEmail)
	}
	if loaded.Content.MaxNewsPerDay != 10 {
		t.Errorf("Expected default max news per day, got %d", loaded.Content.MaxNewsPerDay)
	}
}

func TestServiceLoadInvalidFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := os.WriteFile(path, []byte("site_name: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	service := NewService(NewFileStore(path))
	if err := service.Load(); err == nil {
		t.Error("Expected error for malformed YAML")
	}
	if service.Get().SiteName != "Impacto Diário" {
		t.Errorf("Expected defaults to remain, got '%s'", service.Get().SiteName)
	}
}

func TestServiceSaveValidation(t *testing.T) {
	store := &failingStore{}
	service := NewService(store)

	tests := []struct {
		name   string
		modify func(*SiteSettings)
	}{
		{"empty site name", func(s *SiteSettings) { s.SiteName = " " }},
		{"empty email", func(s *SiteSettings) { s.ContactEmail = "" }},
		{"bad email", func(s *SiteSettings) { s.ContactEmail = "not-an-email" }},
		{"negative max news", func(s *SiteSettings) { s.Content.MaxNewsPerDay = -1 }},
		{"unknown category", func(s *SiteSettings) { s.Content.DefaultCategory = "esportes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Defaults()
			tt.modify(&next)

			err := service.Save(next)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}

	if store.saved != 0 {
		t.Errorf("Invalid settings should never reach the store, got %d saves", store.saved)
	}
}

func TestServiceSaveStoreFailureKeepsCurrent(t *testing.T) {
	service := NewService(&failingStore{saveErr: errors.New("disk full")})

	next := Defaults()
	next.SiteName = "Changed"
	if err := service.Save(next); err == nil {
		t.Fatal("Expected error from store")
	}
	if service.Get().SiteName != "Impacto Diário" {
		t.Errorf("Current settings should not change on failure, got '%s'", service.Get().SiteName)
	}
}
