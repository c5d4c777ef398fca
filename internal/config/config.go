package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Config holds the eduhub API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Catalogs   []CatalogConfig  `yaml:"catalogs" validate:"dive"`
	DataDir    string           `yaml:"data_dir"`
	Pagination PaginationConfig `yaml:"pagination"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig maps bearer keys issued by the session provider to roles.
type AuthConfig struct {
	Keys        []KeyConfig `yaml:"keys" validate:"dive"`
	DefaultRole string      `yaml:"default_role" validate:"omitempty,oneof=guest student tutor admin"`
}

// KeyConfig binds one bearer key to a role.
type KeyConfig struct {
	Key  string `yaml:"key"`
	Role string `yaml:"role" validate:"required,oneof=guest student tutor admin"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// PaginationConfig holds page size limits for record listings.
type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// CatalogConfig declares one browsable catalog.
type CatalogConfig struct {
	Name       string        `yaml:"name" validate:"required,max=64"`
	Title      string        `yaml:"title"`
	Capability string        `yaml:"capability" validate:"omitempty,oneof=browse marketplace upload moderate"`
	Data       string        `yaml:"data" validate:"required"`
	Partition  string        `yaml:"partition"`
	Facets     []FacetConfig `yaml:"facets" validate:"required,min=1,dive"`
}

// FacetConfig declares one facet of a catalog.
type FacetConfig struct {
	Field      string   `yaml:"field" validate:"required"`
	Kind       string   `yaml:"kind" validate:"required,oneof=text single-select multi-select"`
	TextFields []string `yaml:"text_fields" validate:"omitempty,dive,required"`
	Source     string   `yaml:"source"` // record field read by select facets (default: field)
	Order      string   `yaml:"order" validate:"omitempty,oneof=asc desc"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(filepath.Dir(configPath)), cfg.DataDir)
	}
	return cfg, nil
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "guest"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Pagination.DefaultPageSize <= 0 {
		c.Pagination.DefaultPageSize = 20
	}
	if c.Pagination.MaxPageSize <= 0 {
		c.Pagination.MaxPageSize = 100
	}
	for i := range c.Catalogs {
		if c.Catalogs[i].Capability == "" {
			c.Catalogs[i].Capability = "browse"
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("pagination.default_page_size (%d) exceeds max_page_size (%d)",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}
	if err := validate.Struct(c); err != nil {
		return describe(err)
	}

	names := make(map[string]bool, len(c.Catalogs))
	for _, cat := range c.Catalogs {
		if names[cat.Name] {
			return fmt.Errorf("duplicate catalog %q", cat.Name)
		}
		names[cat.Name] = true
	}
	keys := make(map[string]bool, len(c.Auth.Keys))
	for _, k := range c.Auth.Keys {
		if k.Key == "" {
			continue
		}
		if keys[k.Key] {
			return fmt.Errorf("auth.keys: duplicate key for role %q", k.Role)
		}
		keys[k.Key] = true
	}
	return nil
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		path := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", path))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q not recognized, only support %q", path, e.Value(), e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", path, e.Param()))
		default:
			msgs = append(msgs, e.Error())
		}
	}
	return errors.New(strings.Join(msgs, " and "))
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
