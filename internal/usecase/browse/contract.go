package browse

import (
	"context"

	domcat "github.com/campuscrew/eduhub/internal/domain/catalog"
)

// CatalogReader reads the in-memory catalogs.
type CatalogReader interface {
	Get(ctx context.Context, name string) (domcat.Catalog, error)
	List(ctx context.Context) ([]domcat.Catalog, error)
}
