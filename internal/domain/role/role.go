// Package role maps session roles to the capabilities they grant.
// A capability set is resolved once per request and passed down; handlers
// check capabilities, never role names.
package role

import (
	"context"
	"fmt"
	"slices"
)

// Role is the trusted role claim attached to a caller.
type Role string

// Roles.
const (
	Guest   Role = "guest"
	Student Role = "student"
	Tutor   Role = "tutor"
	Admin   Role = "admin"
)

// Parse validates a role name.
func Parse(s string) (Role, error) {
	r := Role(s)
	if _, ok := grants[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Capability is one permitted action class.
type Capability string

// Capabilities.
const (
	// Browse allows reading public catalogs (notes, papers).
	Browse Capability = "browse"
	// Marketplace allows reading and answering help requests.
	Marketplace Capability = "marketplace"
	// Upload allows contributing papers and notes.
	Upload Capability = "upload"
	// Moderate allows reviewing pending uploads.
	Moderate Capability = "moderate"
)

// ParseCapability validates a capability name.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	switch c {
	case Browse, Marketplace, Upload, Moderate:
		return c, nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

var grants = map[Role][]Capability{
	Guest:   {Browse},
	Student: {Browse, Marketplace},
	Tutor:   {Browse, Marketplace, Upload},
	Admin:   {Browse, Marketplace, Upload, Moderate},
}

// Set is an immutable capability set.
type Set struct {
	role Role
	caps map[Capability]struct{}
}

// Capabilities resolves the capability set granted to r. Unknown roles get nothing.
func Capabilities(r Role) Set {
	caps := make(map[Capability]struct{}, len(grants[r]))
	for _, c := range grants[r] {
		caps[c] = struct{}{}
	}
	return Set{role: r, caps: caps}
}

// Role returns the role the set was resolved from.
func (s Set) Role() Role { return s.role }

// Has reports whether the set grants c.
func (s Set) Has(c Capability) bool {
	_, ok := s.caps[c]
	return ok
}

// List returns the granted capabilities, sorted.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s.caps))
	for c := range s.caps {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

type ctxKey struct{}

// WithContext stores a resolved capability set in the context.
func WithContext(ctx context.Context, s Set) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the capability set from the context.
// Returns the Guest set if none was resolved.
func FromContext(ctx context.Context) Set {
	if s, ok := ctx.Value(ctxKey{}).(Set); ok {
		return s
	}
	return Capabilities(Guest)
}
