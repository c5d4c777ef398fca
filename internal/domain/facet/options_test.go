package facet

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/campuscrew/eduhub/internal/domain/record"
)

func TestDeriveOptions_Sorted(t *testing.T) {
	rs := notes(t)

	tests := []struct {
		name string
		def  Definition
		want []any
	}{
		{"strings asc", Definition{Field: "subject"}, []any{"CS", "History", "Math", "Science"}},
		{"numbers asc", Definition{Field: "year"}, []any{float64(1), float64(2), float64(3), float64(4)}},
		{"numbers desc", Definition{Field: "year", Order: Desc}, []any{float64(4), float64(3), float64(2), float64(1)}},
		{
			"arrays flattened",
			Definition{Field: "tags"},
			[]any{"Advanced", "Coding", "Diagram", "EssayTopic", "ExamPrep", "Formula", "Quiz", "Timeline"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOptions(rs, tt.def, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveOptions_NumericNotLexicographic(t *testing.T) {
	rs := []record.Record{
		mustRecord(t, "a", map[string]any{"year": 10}),
		mustRecord(t, "b", map[string]any{"year": 9}),
		mustRecord(t, "c", map[string]any{"year": 10}),
	}
	got := DeriveOptions(rs, Definition{Field: "year"}, nil)
	if diff := cmp.Diff([]any{float64(9), float64(10)}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDeriveOptions_MixedFallsBackToLexicographic(t *testing.T) {
	rs := []record.Record{
		mustRecord(t, "a", map[string]any{"v": 10}),
		mustRecord(t, "b", map[string]any{"v": "9"}),
		mustRecord(t, "c", map[string]any{"v": 2}),
	}
	got := DeriveOptions(rs, Definition{Field: "v"}, nil)
	if diff := cmp.Diff([]any{float64(10), float64(2), "9"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDeriveOptions_SkipsMissing(t *testing.T) {
	rs := []record.Record{
		mustRecord(t, "a", map[string]any{"subject": "Math"}),
		mustRecord(t, "b", map[string]any{}),
	}
	got := DeriveOptions(rs, Definition{Field: "subject"}, nil)
	if diff := cmp.Diff([]any{"Math"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDeriveOptions_CustomComparator(t *testing.T) {
	rank := map[string]int{"Science": 0, "Math": 1, "CS": 2, "History": 3}
	byRank := func(a, b any) int { return rank[a.(string)] - rank[b.(string)] }

	got := DeriveOptions(notes(t), Definition{Field: "subject"}, byRank)
	if diff := cmp.Diff([]any{"Science", "Math", "CS", "History"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDeriveOptions_Empty(t *testing.T) {
	got := DeriveOptions(nil, Definition{Field: "subject"}, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilter_OptionsIndependentOfState(t *testing.T) {
	s := noteFacets(t)
	rs := notes(t)

	base, err := s.Filter(rs, s.DefaultState())
	if err != nil {
		t.Fatal(err)
	}

	st, _ := s.DefaultState().SetSingleSelect("subject", "CS")
	st, _ = st.ToggleMultiSelect("year", 1)
	st, _ = st.SetText("q", "nothing matches this")
	narrowed, err := s.Filter(rs, st)
	if err != nil {
		t.Fatal(err)
	}

	if len(narrowed.Records) != 0 {
		t.Fatalf("expected empty result, got %d", len(narrowed.Records))
	}
	if diff := cmp.Diff(base.Options, narrowed.Options); diff != "" {
		t.Errorf("options changed with state (-base +narrowed):\n%s", diff)
	}
	if _, ok := base.Options["q"]; ok {
		t.Error("text facet must not produce options")
	}
	if diff := cmp.Diff([]any{"CS", "History", "Math", "Science"}, base.Options["subject"]); diff != "" {
		t.Errorf("subject options (-want +got):\n%s", diff)
	}
}
