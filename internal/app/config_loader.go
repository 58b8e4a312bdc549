package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/vimeo-archiver/internal/domain"
)

// LoadConfig loads configuration from file and environment. Credentials may
// come from the config file, a .env file, or VIMARC_* environment variables;
// all three credential fields are required and missing ones are an error
// before any network call is made.
func LoadConfig(configPath string) (*domain.Config, error) {
	// Pull a local .env into the environment first, if one exists
	_ = godotenv.Load()

	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Register every key as a default so viper knows about it even when no
	// config file declares it; AutomaticEnv only surfaces VIMARC_* values
	// through Unmarshal for known keys.
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.vimeo-archiver")
	}

	v.SetEnvPrefix("VIMARC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)
	applyDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers the full key set with viper
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("vimeo.client_id", config.Vimeo.ClientID)
	v.SetDefault("vimeo.client_secret", config.Vimeo.ClientSecret)
	v.SetDefault("vimeo.access_token", config.Vimeo.AccessToken)
	v.SetDefault("archive.start_page", config.Archive.StartPage)
	v.SetDefault("archive.end_page", config.Archive.EndPage)
	v.SetDefault("archive.last_allowed_date", config.Archive.LastAllowedDate)
	v.SetDefault("archive.destination_dir", config.Archive.DestinationDir)
	v.SetDefault("archive.results_dir", config.Archive.ResultsDir)
	v.SetDefault("archive.database_path", config.Archive.DatabasePath)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// applyDefaults fills derived defaults that depend on other fields
func applyDefaults(config *domain.Config) {
	config.Archive.ClampPages()
	if config.Archive.DestinationDir == "" {
		config.Archive.DestinationDir = "."
	}
	if config.Archive.ResultsDir == "" {
		config.Archive.ResultsDir = "./results"
	}
	if config.Archive.DatabasePath == "" {
		config.Archive.DatabasePath = filepath.Join(config.Archive.ResultsDir, "archive.db")
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Archive.DestinationDir = expandPath(config.Archive.DestinationDir)
	config.Archive.ResultsDir = expandPath(config.Archive.ResultsDir)
	config.Archive.DatabasePath = expandPath(config.Archive.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig checks the credential fields. Paths and dates are not
// validated here: unparseable dates fall back to "now" and missing
// directories surface when they are first written to.
func validateConfig(config *domain.Config) error {
	if config.Vimeo.ClientID == "" {
		return fmt.Errorf("vimeo client id not configured")
	}
	if config.Vimeo.ClientSecret == "" {
		return fmt.Errorf("vimeo client secret not configured")
	}
	if config.Vimeo.AccessToken == "" {
		return fmt.Errorf("vimeo access token not configured")
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	return nil
}
