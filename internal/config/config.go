// Package config loads imageform settings with viper from an optional YAML
// file, IMAGEFORM_* environment variables, and bound command-line flags.
//
// Keys are addressed with a "::" delimiter so host table entries such as
// "www.darim.me" survive as single map keys.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/darim/imageform/pkg/endpoint"
	"github.com/darim/imageform/pkg/renderers/page"
	"github.com/darim/imageform/pkg/ui"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "IMAGEFORM"

// Delimiter separates nested key segments.
const Delimiter = "::"

// Keys addressable from flags and the environment.
const (
	KeyAPIHosts       = "api::hosts"
	KeyAPIFallback    = "api::fallback"
	KeyAPIHostname    = "api::hostname"
	KeyAPIURL         = "api::url"
	KeyHTTPTimeout    = "http::timeout"
	KeyUIPlaceholder  = "ui::placeholder"
	KeyUIThemeName    = "ui::theme::name"
	KeyUIThemeVariant = "ui::theme::variant"
	KeyUIThemeTokens  = "ui::theme::tokens"
	KeyUIStylesheet   = "ui::theme::stylesheet"
	KeyLogLevel       = "log::level"
	KeyLogFormat      = "log::format"
	KeyFormsCatalog   = "forms::catalog"
	KeyFormsOpenAPI   = "forms::openapi"
	defaultConfigName = ".imageform"
)

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	UI    UIConfig    `mapstructure:"ui"`
	Log   LogConfig   `mapstructure:"log"`
	Forms FormsConfig `mapstructure:"forms"`
}

type APIConfig struct {
	// Hosts maps page hostnames to API base URLs.
	Hosts map[string]string `mapstructure:"hosts"`
	// Fallback is used for hostnames missing from Hosts.
	Fallback string `mapstructure:"fallback"`
	// Hostname is the host the form is considered served under.
	Hostname string `mapstructure:"hostname"`
	// URL, when set, bypasses the host table.
	URL string `mapstructure:"url"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	Placeholder string      `mapstructure:"placeholder"`
	Theme       ThemeConfig `mapstructure:"theme"`
}

// ThemeConfig describes an inline go-theme manifest for the HTML page.
type ThemeConfig struct {
	Name       string            `mapstructure:"name"`
	Variant    string            `mapstructure:"variant"`
	Tokens     map[string]string `mapstructure:"tokens"`
	Stylesheet string            `mapstructure:"stylesheet"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type FormsConfig struct {
	// Catalog is a directory of extra catalogue files merged over the
	// built-in forms.
	Catalog string `mapstructure:"catalog"`
	// OpenAPI is a file path or URL whose multipart operations are merged
	// over the catalogue.
	OpenAPI string `mapstructure:"openapi"`
}

// New returns a viper instance with defaults and environment binding applied.
// When path is empty a .imageform.yaml in the working directory is read if
// present; an explicit path must exist.
func New(path string) (*viper.Viper, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(Delimiter))
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(Delimiter, "_", "-", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return v, nil
	}

	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(defaultConfigName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s.yaml: %w", defaultConfigName, err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	defaults := endpoint.Default()
	hosts := make(map[string]interface{}, len(defaults.Hosts))
	for host, url := range defaults.Hosts {
		hosts[host] = url
	}
	// Nested maps flatten into per-host keys, so file entries merge with
	// these instead of replacing the table.
	v.SetDefault(KeyAPIHosts, hosts)
	v.SetDefault(KeyAPIFallback, defaults.Fallback)
	v.SetDefault(KeyAPIHostname, "localhost")
	v.SetDefault(KeyAPIURL, "")
	v.SetDefault(KeyHTTPTimeout, time.Duration(0))
	v.SetDefault(KeyUIPlaceholder, ui.DefaultPlaceholder)
	v.SetDefault(KeyUIThemeName, "")
	v.SetDefault(KeyUIThemeVariant, "")
	v.SetDefault(KeyUIStylesheet, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyFormsCatalog, "")
	v.SetDefault(KeyFormsOpenAPI, "")
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("config: viper instance is nil")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", c.Log.Format)
	}
	if strings.TrimSpace(c.API.URL) == "" && strings.TrimSpace(c.API.Fallback) == "" && len(c.API.Hosts) == 0 {
		return errors.New("api: either url or a host table is required")
	}
	return nil
}

// Manifest returns the configured page theme, or nil when no tokens or
// stylesheet are set.
func (t ThemeConfig) Manifest() *theme.Manifest {
	if len(t.Tokens) == 0 && strings.TrimSpace(t.Stylesheet) == "" {
		return nil
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = "imageform"
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: "local",
		Tokens:  make(map[string]string, len(t.Tokens)),
	}
	for key, value := range t.Tokens {
		manifest.Tokens[key] = value
	}
	if sheet := strings.TrimSpace(t.Stylesheet); sheet != "" {
		manifest.Assets = theme.Assets{Files: map[string]string{page.StylesheetAsset: sheet}}
	}
	return manifest
}

// HostTable returns the configured hostname table.
func (c Config) HostTable() endpoint.HostTable {
	return endpoint.HostTable{Fallback: c.API.Fallback}.With(c.API.Hosts)
}

// APIURL returns the API base URL: api.url when set, otherwise the host table
// entry for api.hostname.
func (c Config) APIURL() string {
	if url := strings.TrimSpace(c.API.URL); url != "" {
		return strings.TrimRight(url, "/")
	}
	return strings.TrimRight(c.HostTable().Resolve(c.API.Hostname), "/")
}
