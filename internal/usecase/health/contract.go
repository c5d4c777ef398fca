package health

import "context"

// CatalogPinger checks that catalogs are loaded and readable.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}
