package catalog

import (
	"strings"
	"testing"

	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/record"
	"github.com/campuscrew/eduhub/internal/domain/role"
)

func testFacets(t *testing.T) *facet.Set {
	t.Helper()
	s, err := facet.NewSet(facet.Definition{Field: "subject", Kind: facet.SingleSelect})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func rec(t *testing.T, id string) record.Record {
	t.Helper()
	r, err := record.New(id, map[string]any{"subject": "Math"})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNew_Valid(t *testing.T) {
	c, err := New("notes", "Study Notes", role.Browse, "", testFacets(t), []record.Record{rec(t, "1"), rec(t, "2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "notes" || c.Title() != "Study Notes" {
		t.Errorf("name/title = %q/%q", c.Name(), c.Title())
	}
	if c.Capability() != role.Browse {
		t.Errorf("Capability() = %q", c.Capability())
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestNew_DefaultTitle(t *testing.T) {
	c, err := New("papers", "", role.Browse, "solved", testFacets(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title() != "papers" {
		t.Errorf("Title() = %q", c.Title())
	}
	if c.Partition() != "solved" {
		t.Errorf("Partition() = %q", c.Partition())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		cap     role.Capability
		facets  *facet.Set
		records []record.Record
		errPart string
	}{
		{"empty name", "", role.Browse, testFacets(t), nil, "required"},
		{"bad name", "Notes!", role.Browse, testFacets(t), nil, "lowercase"},
		{"long name", strings.Repeat("a", 65), role.Browse, testFacets(t), nil, "too long"},
		{"bad capability", "notes", "read", testFacets(t), nil, "unknown capability"},
		{"nil facets", "notes", role.Browse, nil, nil, "facets"},
		{"duplicate id", "notes", role.Browse, testFacets(t), []record.Record{rec(t, "1"), rec(t, "1")}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.catalog, "", tt.cap, "", tt.facets, tt.records)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %q, want substring %q", err, tt.errPart)
			}
		})
	}
}
