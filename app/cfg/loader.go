package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/impacto.db" description:"SQLite database file"`
	UploadsDir   string `long:"uploads-dir" env:"UPLOADS_DIR" default:"./data/uploads" description:"Directory for uploaded images"`
	UploadsURL   string `long:"uploads-url" env:"UPLOADS_URL" description:"Public URL prefix of uploaded images (defaults to <base-url>/uploads)"`
	SettingsFile string `long:"settings-file" env:"SETTINGS_FILE" default:"./data/settings.yml" description:"YAML file holding the site settings"`

	// Application configuration
	Port                  string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl               string   `long:"base-url" env:"BASE_URL" description:"Public base URL for the site (e.g., https://impactodiario.com)"`
	WorkerCount           int      `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	BannerRefreshInterval int      `long:"banner-refresh-interval" env:"BANNER_REFRESH_INTERVAL" default:"60" description:"Banner refresh interval in seconds"`
	APIAccessKey          string   `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the admin endpoints (admin API disabled when empty)"`
	AllowedOrigins        []string `long:"allowed-origin" env:"ALLOWED_ORIGINS" env-delim:"," description:"CORS origins allowed to call the API (all when empty)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Impacto Diario/1.0" description:"User agent string for article imports"`
	Timezone  string `long:"timezone" env:"TZ" default:"America/Sao_Paulo" description:"Timezone for daily statistics (e.g., UTC, America/Sao_Paulo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", raw.WorkerCount)
	}
	if raw.BannerRefreshInterval < 1 {
		return nil, fmt.Errorf("banner refresh interval must be at least 1 second, got %d", raw.BannerRefreshInterval)
	}

	cfg := &Cfg{
		DBPath:                raw.DBPath,
		UploadsDir:            raw.UploadsDir,
		UploadsURL:            raw.UploadsURL,
		SettingsFile:          raw.SettingsFile,
		Port:                  raw.Port,
		BaseUrl:               strings.TrimRight(raw.BaseUrl, "/"),
		WorkerCount:           raw.WorkerCount,
		BannerRefreshInterval: raw.BannerRefreshInterval,
		APIAccessKey:          raw.APIAccessKey,
		AllowedOrigins:        raw.AllowedOrigins,
		UserAgent:             raw.UserAgent,
		Timezone:              raw.Timezone,
		Debug:                 raw.Debug,
		Version:               GetVersion(),
	}

	if cfg.UploadsURL == "" {
		cfg.UploadsURL = cfg.PublicURL() + "/uploads"
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func (c *Cfg) BannerRefreshEvery() time.Duration {
	return time.Duration(c.BannerRefreshInterval) * time.Second
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
		slog.Debug("Timezone configured", "timezone", timezone)
	}
	return nil
}
