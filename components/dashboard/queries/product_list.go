// Package queries exposes the dashboard's read paths as go-command
// queriers.
package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/catalog"
)

// ProductListInput selects the catalog listing; it has no parameters.
type ProductListInput struct{}

type productSource interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

// ProductListQuery executes a read-only catalog fetch.
type ProductListQuery struct {
	source productSource
}

// NewProductListQuery builds the query.
func NewProductListQuery(source productSource) *ProductListQuery {
	return &ProductListQuery{source: source}
}

var _ gocommand.Querier[ProductListInput, []catalog.Product] = (*ProductListQuery)(nil)

// Query fetches the catalog in server order.
func (q *ProductListQuery) Query(ctx context.Context, _ ProductListInput) ([]catalog.Product, error) {
	return q.source.FetchProducts(ctx)
}
