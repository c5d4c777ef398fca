package eduhub

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogs []catalogSource
	role     string

	defaultPageSize int
	maxPageSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// catalogSource is a catalog declaration with either inline data or a file path.
type catalogSource struct {
	spec CatalogSpec
	data []byte
	path string
}

// WithCatalog adds a catalog built from inline YAML data.
func WithCatalog(spec CatalogSpec, data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogs = append(c.catalogs, catalogSource{spec: spec, data: data})
	})
}

// WithCatalogFile adds a catalog whose YAML data is read from path by New.
func WithCatalogFile(spec CatalogSpec, path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogs = append(c.catalogs, catalogSource{spec: spec, path: path})
	})
}

// WithRole sets the role the client acts as: guest, student, tutor or admin.
// Default: guest.
func WithRole(role string) Option {
	return optionFunc(func(c *clientConfig) {
		c.role = role
	})
}

// WithPagination sets the default and maximum page sizes.
// Defaults: 20 and 100.
func WithPagination(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
