package eduhub

import (
	"context"

	"github.com/campuscrew/eduhub/internal/domain/record"
	browseuc "github.com/campuscrew/eduhub/internal/usecase/browse"
)

// QueryBuilder is a fluent builder for catalog filter queries.
// Values are matched against facet options by their canonical string form,
// so In("year", 2023) and In("year", "2023") select the same option.
type QueryBuilder struct {
	client  *Client
	catalog string
	query   browseuc.Query
}

// Match sets the search string of a text facet.
func (b *QueryBuilder) Match(field, text string) *QueryBuilder {
	b.query.Text[field] = text
	return b
}

// Where sets the chosen value of a single-select facet.
// "all" clears the restriction.
func (b *QueryBuilder) Where(field string, value any) *QueryBuilder {
	b.query.Selections[field] = []string{record.Format(value)}
	return b
}

// In adds values to a multi-select facet; a record matches when it carries any of them.
func (b *QueryBuilder) In(field string, values ...any) *QueryBuilder {
	for _, v := range values {
		b.query.Selections[field] = append(b.query.Selections[field], record.Format(v))
	}
	return b
}

// Partition restricts the page to records whose partition field has value.
func (b *QueryBuilder) Partition(value any) *QueryBuilder {
	b.query.Partition = record.Format(value)
	return b
}

// After continues from a cursor returned in Page.NextCursor.
func (b *QueryBuilder) After(cursor string) *QueryBuilder {
	b.query.Cursor = cursor
	return b
}

// Limit sets the page size. Zero means the default page size.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.query.Limit = n
	return b
}

// Do runs the query and returns one page.
func (b *QueryBuilder) Do(ctx context.Context) (Page, error) {
	return b.client.browse(ctx, b.catalog, b.query)
}
