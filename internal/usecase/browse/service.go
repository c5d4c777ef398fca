package browse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/campuscrew/eduhub/internal/domain"
	domcat "github.com/campuscrew/eduhub/internal/domain/catalog"
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/record"
	"github.com/campuscrew/eduhub/internal/domain/role"
	"github.com/campuscrew/eduhub/internal/logger"
	"github.com/campuscrew/eduhub/internal/metrics"
)

// Service filters catalogs on behalf of a caller with a resolved capability set.
type Service struct {
	catalogs        CatalogReader
	defaultPageSize int
	maxPageSize     int
}

// New creates a browse service.
func New(catalogs CatalogReader) *Service {
	return &Service{catalogs: catalogs, defaultPageSize: 20, maxPageSize: 100}
}

// WithPagination sets default and max page sizes.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

// Catalogs returns the catalogs the caller may read.
func (s *Service) Catalogs(ctx context.Context, caps role.Set) ([]domcat.Catalog, error) {
	all, err := s.catalogs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	visible := make([]domcat.Catalog, 0, len(all))
	for _, c := range all {
		if caps.Has(c.Capability()) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Definitions returns the facet definitions of a catalog, without options.
func (s *Service) Definitions(ctx context.Context, name string, caps role.Set) ([]facet.Definition, error) {
	cat, err := s.authorize(ctx, name, caps)
	if err != nil {
		return nil, err
	}
	return cat.Facets().Definitions(), nil
}

// Facets returns the facet definitions of a catalog with their options.
func (s *Service) Facets(ctx context.Context, name string, caps role.Set) ([]FacetOptions, error) {
	cat, err := s.authorize(ctx, name, caps)
	if err != nil {
		return nil, err
	}
	opts := cat.Facets().Options(cat.Records())
	defs := cat.Facets().Definitions()
	out := make([]FacetOptions, len(defs))
	for i, d := range defs {
		out[i] = FacetOptions{Definition: d, Options: opts[d.Field]}
	}
	return out, nil
}

// Browse filters a catalog by q and returns one page of the result.
func (s *Service) Browse(ctx context.Context, name string, caps role.Set, q Query) (Page, error) {
	if q.Limit < 0 {
		return Page{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidQuery)
	}
	cat, err := s.authorize(ctx, name, caps)
	if err != nil {
		return Page{}, err
	}

	st, err := buildState(cat, q)
	if err != nil {
		metrics.FilterConfigErrorsTotal.WithLabelValues(cat.Name()).Inc()
		return Page{}, fmt.Errorf("build filter state: %w", err)
	}

	start := time.Now()
	res, err := cat.Facets().Filter(cat.Records(), st)
	elapsed := time.Since(start)
	if err != nil {
		metrics.FilterConfigErrorsTotal.WithLabelValues(cat.Name()).Inc()
		return Page{}, fmt.Errorf("filter catalog: %w", err)
	}

	metrics.FilterDuration.WithLabelValues(cat.Name()).Observe(elapsed.Seconds())
	metrics.FilterResults.WithLabelValues(cat.Name()).Observe(float64(len(res.Records)))
	metrics.FilterActiveFacets.WithLabelValues(cat.Name()).Observe(float64(st.Active()))

	logger.FromContext(ctx).Debug("Catalog filtered",
		zap.String("catalog", cat.Name()),
		zap.Int("active_facets", st.Active()),
		zap.Int("matched", len(res.Records)),
		zap.Int("total", cat.Len()),
		zap.Duration("elapsed", elapsed),
	)

	matched := res.Records
	var partitions []PartitionCount
	if field := cat.Partition(); field != "" {
		partitions = countPartitions(matched, field)
		if q.Partition != "" {
			matched = inPartition(matched, field, q.Partition)
		}
	}

	page := s.paginate(matched, q.Cursor, q.Limit)
	page.Options = res.Options
	page.Partitions = partitions
	return page, nil
}

func (s *Service) authorize(ctx context.Context, name string, caps role.Set) (domcat.Catalog, error) {
	cat, err := s.catalogs.Get(ctx, name)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("get catalog: %w", err)
	}
	if !caps.Has(cat.Capability()) {
		return domcat.Catalog{}, fmt.Errorf("catalog %q requires %q: %w", name, cat.Capability(), domain.ErrForbidden)
	}
	return cat, nil
}

// buildState applies the query to the default state of the catalog's facets.
func buildState(cat domcat.Catalog, q Query) (facet.State, error) {
	set := cat.Facets()
	st := set.DefaultState()

	var err error
	for field, text := range q.Text {
		if st, err = st.SetText(field, text); err != nil {
			return facet.State{}, err
		}
	}

	for field, raws := range q.Selections {
		def, ok := set.Definition(field)
		if !ok {
			return facet.State{}, domain.NewUnknownFacet(field)
		}
		raws = dedupe(raws)
		if len(raws) == 0 {
			continue
		}
		options := facet.DeriveOptions(cat.Records(), def, nil)

		switch def.Kind {
		case facet.SingleSelect:
			value := any(raws[0])
			if raws[0] != facet.All {
				value = resolveValue(raws[0], options)
			}
			if st, err = st.SetSingleSelect(field, value); err != nil {
				return facet.State{}, err
			}
		case facet.MultiSelect:
			for _, raw := range raws {
				if st, err = st.ToggleMultiSelect(field, resolveValue(raw, options)); err != nil {
					return facet.State{}, err
				}
			}
		default:
			return facet.State{}, domain.NewFacetKindMismatch(field, "select", string(def.Kind))
		}
	}
	return st, nil
}

func dedupe(raws []string) []string {
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		if r != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func countPartitions(records []record.Record, field string) []PartitionCount {
	values := facet.DeriveOptions(records, facet.Definition{Field: field}, nil)
	out := make([]PartitionCount, len(values))
	for i, v := range values {
		out[i] = PartitionCount{Value: v}
	}
	for _, r := range records {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		for i := range out {
			if record.Equal(out[i].Value, v) {
				out[i].Count++
				break
			}
		}
	}
	return out
}

func inPartition(records []record.Record, field, raw string) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if v, ok := r.Get(field); ok && record.Format(v) == raw {
			out = append(out, r)
		}
	}
	return out
}

// paginate slices records after the cursor (a record ID). An unknown cursor starts from the top.
func (s *Service) paginate(records []record.Record, cursor string, limit int) Page {
	if limit == 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	startIdx := 0
	if cursor != "" {
		for i, r := range records {
			if r.ID() == cursor {
				startIdx = i + 1
				break
			}
		}
	}

	end := min(startIdx+limit, len(records))
	items := records[startIdx:end]

	page := Page{
		Items:   items,
		Total:   len(records),
		HasMore: end < len(records),
	}
	if page.HasMore && len(items) > 0 {
		page.NextCursor = items[len(items)-1].ID()
	}
	return page
}

// IsConfigurationError reports whether err is a facet wiring bug rather than a caller mistake.
func IsConfigurationError(err error) bool {
	return errors.Is(err, domain.ErrConfiguration)
}
