package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/dashboard"
)

type orderSource interface {
	FetchOrders(ctx context.Context, query dashboard.OrdersQuery) (dashboard.OrderPage, error)
}

// RecentOrdersQuery pages through the order history, newest first.
type RecentOrdersQuery struct {
	source orderSource
}

// NewRecentOrdersQuery builds the query.
func NewRecentOrdersQuery(source orderSource) *RecentOrdersQuery {
	return &RecentOrdersQuery{source: source}
}

var _ gocommand.Querier[dashboard.OrdersQuery, dashboard.OrderPage] = (*RecentOrdersQuery)(nil)

// Query fetches one page of orders, applying the server defaults to
// zero-valued paging fields.
func (q *RecentOrdersQuery) Query(ctx context.Context, query dashboard.OrdersQuery) (dashboard.OrderPage, error) {
	return q.source.FetchOrders(ctx, query.Normalize())
}
