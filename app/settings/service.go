package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/impacto-diario/app/news"
)

type Store interface {
	Load() (*SiteSettings, error)
	Save(s SiteSettings) error
}

// FileStore keeps the settings in a single YAML file. A missing file is not
// an error: Load returns nil and the caller falls back to defaults.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Load() (*SiteSettings, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Fields absent from the file keep their default values.
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &s, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the target.
func (fs *FileStore) Save(s SiteSettings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}

type Service struct {
	store   Store
	current SiteSettings
	mu      sync.RWMutex
}

func NewService(store Store) *Service {
	return &Service{
		store:   store,
		current: Defaults(),
	}
}

// Load reads the persisted settings. Unreadable or invalid files are logged
// and the defaults stay in place.
func (s *Service) Load() error {
	loaded, err := s.store.Load()
	if err != nil {
		slog.Warn("Failed to load site settings, using defaults", "error", err)
		return err
	}
	if loaded == nil {
		slog.Debug("No site settings saved yet, using defaults")
		return nil
	}

	if err := Validate(loaded); err != nil {
		slog.Warn("Saved site settings are invalid, using defaults", "error", err)
		return err
	}

	s.mu.Lock()
	s.current = *loaded
	s.mu.Unlock()

	slog.Debug("Site settings loaded", "site_name", loaded.SiteName)
	return nil
}

func (s *Service) Get() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) Save(next SiteSettings) error {
	if err := Validate(&next); err != nil {
		return err
	}

	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	return nil
}

func (s *Service) SocialLinks() SocialLinks {
	return s.Get().SocialMedia
}

func (s *Service) SiteInfo() SiteInfo {
	current := s.Get()
	return SiteInfo{
		Name:         current.SiteName,
		Description:  current.SiteDescription,
		ContactEmail: current.ContactEmail,
	}
}

// ValidationError carries a message suitable for the admin UI.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate trims the text fields in place and checks them.
func Validate(s *SiteSettings) error {
	s.SiteName = strings.TrimSpace(s.SiteName)
	s.SiteDescription = strings.TrimSpace(s.SiteDescription)
	s.ContactEmail = strings.TrimSpace(s.ContactEmail)

	requiredFields := map[string]string{
		"site name":     s.SiteName,
		"contact email": s.ContactEmail,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return &ValidationError{Message: fieldName + " is required"}
		}
	}

	if _, err := mail.ParseAddress(s.ContactEmail); err != nil {
		return &ValidationError{Message: "contact email is invalid"}
	}

	if s.Content.MaxNewsPerDay < 0 {
		return &ValidationError{Message: "max news per day must be non-negative"}
	}

	if s.Content.DefaultCategory != "" {
		if _, err := news.ParseCategory(s.Content.DefaultCategory); err != nil {
			return &ValidationError{Message: err.Error()}
		}
	}

	return nil
}
