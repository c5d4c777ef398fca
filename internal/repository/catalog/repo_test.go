package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/campuscrew/eduhub/internal/config"
	"github.com/campuscrew/eduhub/internal/domain"
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/role"
)

const papersYAML = `
records:
  - id: p1
    title: Data Structures Final
    subject: CS
    year: 2
    solved: true
  - id: p2
    title: Organic Chemistry Midterm
    subject: Chemistry
    year: 1
    solved: false
  - id: 3
    title: Linear Algebra Final
    subject: Math
    year: 2
    solved: false
`

func papersConfig() config.CatalogConfig {
	return config.CatalogConfig{
		Name:       "papers",
		Title:      "Exam Papers",
		Capability: "browse",
		Data:       "papers.yaml",
		Partition:  "solved",
		Facets: []config.FacetConfig{
			{Field: "q", Kind: "text", TextFields: []string{"title", "subject"}},
			{Field: "subject", Kind: "single-select"},
			{Field: "year", Kind: "multi-select", Order: "desc"},
		},
	}
}

func TestBuild(t *testing.T) {
	cat, err := Build(papersConfig(), []byte(papersYAML))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if cat.Name() != "papers" || cat.Title() != "Exam Papers" || cat.Partition() != "solved" {
		t.Errorf("unexpected catalog metadata: %q %q %q", cat.Name(), cat.Title(), cat.Partition())
	}
	if cat.Capability() != role.Browse {
		t.Errorf("Capability() = %q", cat.Capability())
	}

	var ids []string
	for _, r := range cat.Records() {
		ids = append(ids, r.ID())
	}
	if diff := cmp.Diff([]string{"p1", "p2", "3"}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}

	year, ok := cat.Facets().Definition("year")
	if !ok || year.Kind != facet.MultiSelect || year.Order != facet.Desc {
		t.Errorf("unexpected year facet: %+v", year)
	}
}

func TestBuild_SourceAccessor(t *testing.T) {
	cfg := papersConfig()
	cfg.Facets = append(cfg.Facets, config.FacetConfig{Field: "status", Kind: "single-select", Source: "solved"})

	cat, err := Build(cfg, []byte(papersYAML))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st, err := cat.Facets().DefaultState().SetSingleSelect("status", true)
	if err != nil {
		t.Fatal(err)
	}
	res, err := cat.Facets().Filter(cat.Records(), st)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 || res.Records[0].ID() != "p1" {
		t.Errorf("expected only p1, got %d records", len(res.Records))
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.CatalogConfig)
		data    string
		errPart string
	}{
		{"bad yaml", nil, "records: [", "parse data"},
		{"missing id", nil, "records:\n  - title: x\n", "ID is required"},
		{"nested map", nil, "records:\n  - id: a\n    meta: {a: 1}\n", "unsupported"},
		{"duplicate id", nil, "records:\n  - id: a\n  - id: a\n", "duplicate"},
		{"duplicate facet", func(c *config.CatalogConfig) {
			c.Facets = append(c.Facets, config.FacetConfig{Field: "year", Kind: "text"})
		}, papersYAML, "duplicate facet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := papersConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			_, err := Build(cfg, []byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %q, want substring %q", err, tt.errPart)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "papers.yaml"), []byte(papersYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := Load([]config.CatalogConfig{papersConfig()}, dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	cat, err := repo.Get(ctx, "papers")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d", cat.Len())
	}

	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List() = %d, %v", len(all), err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load([]config.CatalogConfig{papersConfig()}, t.TempDir(), zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "read catalog") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestNew_DuplicateAndOrder(t *testing.T) {
	a, _ := Build(papersConfig(), []byte(papersYAML))
	cfg := papersConfig()
	cfg.Name = "archive"
	b, _ := Build(cfg, []byte(papersYAML))

	repo, err := New(b, a)
	if err != nil {
		t.Fatal(err)
	}
	list, _ := repo.List(context.Background())
	if list[0].Name() != "archive" || list[1].Name() != "papers" {
		t.Errorf("List order = %q, %q", list[0].Name(), list[1].Name())
	}

	if _, err := New(a, a); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	empty, _ := New()
	if err := empty.Ping(context.Background()); err == nil {
		t.Error("expected Ping error on empty repo")
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			cfg, err := config.Load(env)
			if err != nil {
				t.Fatalf("config.Load(%q): %v", env, err)
			}
			repo, err := Load(cfg.Catalogs, cfg.DataDir, zap.NewNop())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			list, _ := repo.List(context.Background())
			var names []string
			for _, c := range list {
				if c.Len() == 0 {
					t.Errorf("catalog %q has no records", c.Name())
				}
				names = append(names, c.Name())
			}
			want := []string{"notes", "papers", "requests", "notifications"}
			if diff := cmp.Diff(want, names); diff != "" {
				t.Errorf("catalogs mismatch (-want +got):\n%s", diff)
			}

			requests, _ := repo.Get(context.Background(), "requests")
			if requests.Capability() != role.Marketplace {
				t.Errorf("requests capability = %q", requests.Capability())
			}
		})
	}
}
