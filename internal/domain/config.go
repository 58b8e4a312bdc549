package domain

import "time"

// Config represents the application configuration
type Config struct {
	Vimeo   VimeoConfig   `mapstructure:"vimeo"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// VimeoConfig contains the API credentials. All three fields are required.
type VimeoConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AccessToken  string `mapstructure:"access_token"`
}

// ArchiveConfig contains archive-run configuration
type ArchiveConfig struct {
	StartPage       int    `mapstructure:"start_page"`
	EndPage         int    `mapstructure:"end_page"` // 0 = unbounded
	LastAllowedDate string `mapstructure:"last_allowed_date"`
	DestinationDir  string `mapstructure:"destination_dir"`
	ResultsDir      string `mapstructure:"results_dir"`
	DatabasePath    string `mapstructure:"database_path"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// ClampPages normalizes the page range: start pages below 1 become 1 and a
// negative end page means unbounded. Applied after config load and again
// after flag overrides.
func (c *ArchiveConfig) ClampPages() {
	if c.StartPage < 1 {
		c.StartPage = 1
	}
	if c.EndPage < 0 {
		c.EndPage = 0
	}
}

// Cutoff parses the configured last allowed date. Videos released strictly
// after this instant are not downloaded. Accepts RFC3339 or a bare date;
// unset or unparseable values fall back to the current time.
func (c *ArchiveConfig) Cutoff() time.Time {
	if c.LastAllowedDate == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, c.LastAllowedDate); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", c.LastAllowedDate); err == nil {
		return t
	}
	return time.Now()
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			StartPage:      1,
			EndPage:        0,
			DestinationDir: ".",
			ResultsDir:     "./results",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
