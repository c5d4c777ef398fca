package eduhub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domcat "github.com/campuscrew/eduhub/internal/domain/catalog"
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/role"
	catalogrepo "github.com/campuscrew/eduhub/internal/repository/catalog"
	browseuc "github.com/campuscrew/eduhub/internal/usecase/browse"
	healthuc "github.com/campuscrew/eduhub/internal/usecase/health"
)

// Internal interfaces, swapped in tests.
type browseUseCase interface {
	Catalogs(ctx context.Context, caps role.Set) ([]domcat.Catalog, error)
	Facets(ctx context.Context, name string, caps role.Set) ([]browseuc.FacetOptions, error)
	Browse(ctx context.Context, name string, caps role.Set, q browseuc.Query) (browseuc.Page, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the eduhub SDK entry point. It is safe for concurrent use.
type Client struct {
	browseSvc browseUseCase
	healthSvc healthUseCase
	store     pinger
	caps      role.Set
	obs       *observer
}

// New loads the configured catalogs and creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{role: string(role.Guest)}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.catalogs) == 0 {
		return nil, errors.New("eduhub: at least one catalog required (use WithCatalog or WithCatalogFile)")
	}

	r, err := role.Parse(cfg.role)
	if err != nil {
		return nil, fmt.Errorf("eduhub: %w", err)
	}

	cats := make([]domcat.Catalog, 0, len(cfg.catalogs))
	for _, src := range cfg.catalogs {
		cat, err := buildCatalog(src)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}

	repo, err := catalogrepo.New(cats...)
	if err != nil {
		return nil, fmt.Errorf("eduhub: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		browseSvc: browseuc.New(repo).WithPagination(cfg.defaultPageSize, cfg.maxPageSize),
		healthSvc: healthuc.New(repo),
		store:     repo,
		caps:      role.Capabilities(r),
		obs:       obs,
	}, nil
}

func buildCatalog(src catalogSource) (domcat.Catalog, error) {
	data := src.data
	if src.path != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(src.path))
		if err != nil {
			return domcat.Catalog{}, fmt.Errorf("eduhub: read catalog %q data: %w", src.spec.Name, err)
		}
	}
	cat, err := catalogrepo.Build(src.spec.toConfig(), data)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("eduhub: %w", err)
	}
	return cat, nil
}

// As returns a client sharing the same catalogs that acts as another role.
func (c *Client) As(roleName string) (*Client, error) {
	r, err := role.Parse(roleName)
	if err != nil {
		return nil, fmt.Errorf("eduhub: %w", err)
	}
	clone := *c
	clone.caps = role.Capabilities(r)
	return &clone, nil
}

// Role returns the role the client acts as.
func (c *Client) Role() string {
	return string(c.caps.Role())
}

// Ping reports an error when no catalog is loaded.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Catalogs lists the catalogs visible to the client's role.
func (c *Client) Catalogs(ctx context.Context) (_ []Catalog, err error) {
	start := time.Now()
	defer func() { c.obs.observe("catalogs", "", start, err) }()

	cats, err := c.browseSvc.Catalogs(ctx, c.caps)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	out := make([]Catalog, len(cats))
	for i, cat := range cats {
		out[i] = Catalog{
			Name:       cat.Name(),
			Title:      cat.Title(),
			Capability: string(cat.Capability()),
			Partition:  cat.Partition(),
			Records:    cat.Len(),
		}
	}
	return out, nil
}

// Facets returns the facets of a catalog with their options.
func (c *Client) Facets(ctx context.Context, catalog string) (_ []Facet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", catalog, start, err) }()

	fos, err := c.browseSvc.Facets(ctx, catalog, c.caps)
	if err != nil {
		return nil, fmt.Errorf("facets of %q: %w", catalog, err)
	}
	out := make([]Facet, len(fos))
	for i, fo := range fos {
		out[i] = Facet{
			Field:      fo.Definition.Field,
			Kind:       FacetKind(fo.Definition.Kind),
			TextFields: fo.Definition.TextFields,
			Options:    fo.Options,
		}
		if fo.Definition.Kind != facet.Text {
			out[i].Order = string(fo.Definition.Order)
		}
	}
	return out, nil
}

// Query starts a filter query on a catalog.
func (c *Client) Query(catalog string) *QueryBuilder {
	return &QueryBuilder{
		client:  c,
		catalog: catalog,
		query: browseuc.Query{
			Text:       make(map[string]string),
			Selections: make(map[string][]string),
		},
	}
}

func (c *Client) browse(ctx context.Context, catalog string, q browseuc.Query) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("browse", catalog, start, err) }()

	p, err := c.browseSvc.Browse(ctx, catalog, c.caps, q)
	if err != nil {
		return Page{}, fmt.Errorf("browse %q: %w", catalog, err)
	}
	return toPage(p), nil
}

func toPage(p browseuc.Page) Page {
	items := make([]map[string]any, len(p.Items))
	for i, r := range p.Items {
		items[i] = r.Fields()
	}
	out := Page{
		Items:      items,
		Total:      p.Total,
		Options:    p.Options,
		HasMore:    p.HasMore,
		NextCursor: p.NextCursor,
	}
	for _, pc := range p.Partitions {
		out.Partitions = append(out.Partitions, PartitionCount{Value: pc.Value, Count: pc.Count})
	}
	return out
}
