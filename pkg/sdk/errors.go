package eduhub

import "github.com/campuscrew/eduhub/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrAlreadyExists = domain.ErrAlreadyExists
	ErrForbidden     = domain.ErrForbidden
	ErrInvalidQuery  = domain.ErrInvalidQuery
	ErrConfiguration = domain.ErrConfiguration
	ErrUnknownFacet  = domain.ErrUnknownFacet
	ErrFacetKind     = domain.ErrFacetKind
)
