package cfg

import (
	"fmt"
	"time"
)

type Cfg struct {
	// Storage configuration
	DBPath       string
	UploadsDir   string
	UploadsURL   string
	SettingsFile string

	// Application configuration
	Port                  string
	BaseUrl               string
	WorkerCount           int
	BannerRefreshInterval int
	APIAccessKey          string
	AllowedOrigins        []string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// PublicURL is the externally visible root of the site without a trailing
// slash.
func (c *Cfg) PublicURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return fmt.Sprintf("http://localhost:%s", c.Port)
}

// Location resolves Timezone, falling back to time.Local.
func (c *Cfg) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
