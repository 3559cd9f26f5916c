// Package storeapi provides typed access to the grocery store REST API.
// HTTPClient talks to a live server; MockClient is an in-memory double with
// the same behavior so components and the CLI can run offline. Both satisfy
// the consumer interfaces the component packages declare.
package storeapi

import (
	"context"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/orders"
)

// ProductClient covers the catalog endpoints.
type ProductClient interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, draft catalog.ProductDraft) error
	UpdateProduct(ctx context.Context, id int, draft catalog.ProductDraft) error
	DeleteProduct(ctx context.Context, id int) error
}

// OrderClient covers the order endpoints.
type OrderClient interface {
	FetchOrders(ctx context.Context, query dashboard.OrdersQuery) (dashboard.OrderPage, error)
	SubmitOrder(ctx context.Context, draft orders.Draft) (orders.Receipt, error)
}

// StatsClient covers the statistics endpoint.
type StatsClient interface {
	FetchStats(ctx context.Context) (dashboard.Stats, error)
}

// Client is a convenience union for implementations covering the whole API.
type Client interface {
	ProductClient
	OrderClient
	StatsClient
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)

	_ catalog.Client          = (*HTTPClient)(nil)
	_ orders.Client           = (*HTTPClient)(nil)
	_ dashboard.ProductSource = (*HTTPClient)(nil)
	_ dashboard.OrderSource   = (*HTTPClient)(nil)
	_ dashboard.StatsSource   = (*HTTPClient)(nil)
)
