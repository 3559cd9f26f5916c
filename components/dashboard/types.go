// Package dashboard implements the store overview refresh: three data
// branches (catalog, recent orders, statistics) fetched concurrently and
// folded into one render-ready snapshot. A failed branch degrades to a
// fallback without taking the others down.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/components/catalog"
)

// Branch names identify the three refresh legs in failures, toasts and
// telemetry.
const (
	BranchProducts = "products"
	BranchOrders   = "orders"
	BranchStats    = "stats"
)

// OrderSummary is one row of the recent-orders listing as served by the
// store API.
type OrderSummary struct {
	ID       int
	Number   string
	Customer string
	Total    decimal.Decimal
	Items    string
	PlacedAt time.Time
}

// OrdersQuery pages through the order history.
type OrdersQuery struct {
	Page    int
	PerPage int
}

// Normalize fills the server defaults for zero-valued fields.
func (q OrdersQuery) Normalize() OrdersQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = 10
	}
	return q
}

// OrderPage is one page of order history plus paging bookkeeping.
type OrderPage struct {
	Orders  []OrderSummary
	Total   int
	Page    int
	PerPage int
}

// Stats is the store-wide counter set. The server counts products with
// stock at or below ten as low stock.
type Stats struct {
	TotalOrders      int
	TotalRevenue     decimal.Decimal
	TodayOrders      int
	TodayRevenue     decimal.Decimal
	TotalProducts    int
	LowStockProducts int
}

// ProductSource supplies the catalog branch of a refresh.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

// OrderSource supplies the recent-orders branch of a refresh.
type OrderSource interface {
	FetchOrders(ctx context.Context, query OrdersQuery) (OrderPage, error)
}

// StatsSource supplies the statistics branch of a refresh.
type StatsSource interface {
	FetchStats(ctx context.Context) (Stats, error)
}

// BranchError records which refresh leg failed and why.
type BranchError struct {
	Branch string
	Err    error
}

// Error implements error.
func (e BranchError) Error() string {
	return fmt.Sprintf("dashboard: %s branch failed: %v", e.Branch, e.Err)
}

// Unwrap exposes the underlying failure.
func (e BranchError) Unwrap() error {
	return e.Err
}

// StatCard is one labelled figure on the overview, formatted for display.
type StatCard struct {
	Label string
	Value string
}

// OrderRow is the render-ready projection of an order summary. Customer and
// Items are HTML-escaped.
type OrderRow struct {
	Number     string
	Customer   string
	Items      string
	TotalLabel string
	PlacedAt   time.Time
}

// Snapshot is the outcome of one refresh: raw branch data, render-ready
// projections, and the failures that occurred. Branches that failed keep
// their zero value and are listed in Failures.
type Snapshot struct {
	Products []catalog.Product
	Orders   []OrderSummary
	Stats    Stats

	Cards       []StatCard
	ProductRows []catalog.Row
	OrderRows   []OrderRow

	Failures    []BranchError
	GeneratedAt time.Time
}

// Failed reports whether the named branch failed during the refresh.
func (s Snapshot) Failed(branch string) bool {
	for _, f := range s.Failures {
		if f.Branch == branch {
			return true
		}
	}
	return false
}

// Telemetry allows the orchestrator to emit structured events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
