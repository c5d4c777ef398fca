package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestFacetError_UnknownFacet(t *testing.T) {
	err := NewUnknownFacet("colour")

	if !errors.Is(err, ErrUnknownFacet) {
		t.Error("expected errors.Is(err, ErrUnknownFacet)")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected errors.Is(err, ErrConfiguration)")
	}
	if errors.Is(err, ErrFacetKind) {
		t.Error("unknown facet must not match ErrFacetKind")
	}
	if !strings.Contains(err.Error(), `"colour"`) {
		t.Errorf("error = %q", err)
	}
}

func TestFacetError_KindMismatch(t *testing.T) {
	err := NewFacetKindMismatch("subject", "text", "single-select")

	if !errors.Is(err, ErrFacetKind) {
		t.Error("expected errors.Is(err, ErrFacetKind)")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected errors.Is(err, ErrConfiguration)")
	}

	var fe *FacetError
	if !errors.As(err, &fe) {
		t.Fatal("expected *FacetError")
	}
	if fe.Field != "subject" || fe.Want != "text" || fe.Got != "single-select" {
		t.Errorf("unexpected fields: %+v", fe)
	}
}
