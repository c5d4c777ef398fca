package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/campuscrew/eduhub/internal/config"
	"github.com/campuscrew/eduhub/internal/domain"
	domcat "github.com/campuscrew/eduhub/internal/domain/catalog"
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/record"
	"github.com/campuscrew/eduhub/internal/domain/role"
)

// dataFile is the on-disk layout of a catalog fixture.
type dataFile struct {
	Records []map[string]any `yaml:"records"`
}

// Repo holds catalogs in memory. It is read-only after Load and safe for concurrent use.
type Repo struct {
	byName map[string]domcat.Catalog
	order  []string
}

// Load reads every configured catalog and its data file from dataDir.
func Load(cfgs []config.CatalogConfig, dataDir string, logger *zap.Logger) (*Repo, error) {
	r := &Repo{byName: make(map[string]domcat.Catalog, len(cfgs))}
	for _, c := range cfgs {
		path := c.Data
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataDir, path)
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read catalog %q data: %w", c.Name, err)
		}
		cat, err := Build(c, data)
		if err != nil {
			return nil, err
		}
		if err := r.add(cat); err != nil {
			return nil, err
		}
		logger.Info("Catalog loaded",
			zap.String("catalog", cat.Name()),
			zap.String("file", path),
			zap.Int("records", cat.Len()),
			zap.Int("facets", len(cat.Facets().Definitions())),
		)
	}
	return r, nil
}

// New creates a repository from already built catalogs.
func New(cats ...domcat.Catalog) (*Repo, error) {
	r := &Repo{byName: make(map[string]domcat.Catalog, len(cats))}
	for _, c := range cats {
		if err := r.add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Repo) add(c domcat.Catalog) error {
	if _, dup := r.byName[c.Name()]; dup {
		return fmt.Errorf("catalog %q: %w", c.Name(), domain.ErrAlreadyExists)
	}
	r.byName[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// Build creates a catalog from its declaration and YAML data.
func Build(c config.CatalogConfig, data []byte) (domcat.Catalog, error) {
	facets, err := buildFacets(c.Facets)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("catalog %q: %w", c.Name, err)
	}

	var df dataFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return domcat.Catalog{}, fmt.Errorf("catalog %q: parse data: %w", c.Name, err)
	}

	records := make([]record.Record, 0, len(df.Records))
	for i, raw := range df.Records {
		id := record.Format(raw[record.IDField])
		rec, err := record.New(id, raw)
		if err != nil {
			return domcat.Catalog{}, fmt.Errorf("catalog %q: record #%d: %w", c.Name, i, err)
		}
		records = append(records, rec)
	}

	cat, err := domcat.New(c.Name, c.Title, role.Capability(c.Capability), c.Partition, facets, records)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}

func buildFacets(cfgs []config.FacetConfig) (*facet.Set, error) {
	defs := make([]facet.Definition, len(cfgs))
	for i, fc := range cfgs {
		defs[i] = facet.Definition{
			Field:      fc.Field,
			Kind:       facet.Kind(fc.Kind),
			TextFields: fc.TextFields,
			Order:      facet.Order(fc.Order),
		}
		if fc.Source != "" {
			defs[i].Accessor = facet.FieldAccessor(fc.Source)
		}
	}
	return facet.NewSet(defs...)
}

// Get returns a catalog by name.
func (r *Repo) Get(_ context.Context, name string) (domcat.Catalog, error) {
	c, ok := r.byName[name]
	if !ok {
		return domcat.Catalog{}, fmt.Errorf("catalog %q: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

// List returns all catalogs in declaration order.
func (r *Repo) List(_ context.Context) ([]domcat.Catalog, error) {
	out := make([]domcat.Catalog, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out, nil
}

// Ping reports whether any catalog is loaded.
func (r *Repo) Ping(_ context.Context) error {
	if len(r.order) == 0 {
		return fmt.Errorf("no catalogs loaded")
	}
	return nil
}
