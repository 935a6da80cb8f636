package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/TeknoVenus/unifi-go/pkg/unifi"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the unifictl CLI.
// It contains controller connection details and credentials.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" json:"version"`
	// ServerURL is the URL of the UniFi controller
	ServerURL string `yaml:"server_url" json:"server_url" validate:"required,url"`
	// Username is the controller account used for logins
	Username string `yaml:"username" json:"username" validate:"required"`
	// Password is the controller account password (may come from the environment instead)
	Password string `yaml:"password" json:"password"`
	// Site is the site name commands resolve relative paths against
	Site string `yaml:"site" json:"site"`
	// InsecureTLS skips certificate validation for self-signed controllers
	InsecureTLS bool `yaml:"insecure_tls" json:"insecure_tls"`
}

var config *Config

var validate = validator.New()

// GetDefaultConfigPath returns the default path for the config file.
// It uses the OS-specific config directory (e.g., ~/.config/unifictl on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "unifictl", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
// If no file is specified, it uses the default config location.
// Credentials may be overridden from the environment (UNIFI_USERNAME,
// UNIFI_PASSWORD); a .env file in the working directory is honored.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	// best effort; absence of a .env file is fine
	_ = godotenv.Load()
	if v := os.Getenv("UNIFI_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("UNIFI_PASSWORD"); v != "" {
		c.Password = v
	}

	c.ServerURL = normalizeServerURL(c.ServerURL)
	if c.Site == "" {
		c.Site = "default"
	}

	if err := validate.Struct(&c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to serialize configuration: %w", err)
	}

	if err := os.WriteFile(file, out, 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// normalizeServerURL trims the URL and defaults the scheme to https, the
// controller's usual deployment.
func normalizeServerURL(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return s
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	return s
}

// NewClient builds a unifi.Client from the configuration.
func (cfg *Config) NewClient() (*unifi.Client, error) {
	opts := []unifi.Option{unifi.WithLogger(log.Logger)}
	if cfg.InsecureTLS {
		opts = append(opts, unifi.WithInsecureTLS())
	}
	return unifi.New(cfg.ServerURL, cfg.Username, cfg.Password, opts...)
}

// SitePath resolves an endpoint path. Paths with a leading slash are used
// as-is; anything else is resolved under the configured site.
func (cfg *Config) SitePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join("/api/s", cfg.Site, p)
}
