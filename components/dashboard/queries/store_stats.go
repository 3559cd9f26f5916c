package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/dashboard"
)

// StoreStatsInput selects the store-wide statistics; it has no parameters.
type StoreStatsInput struct{}

type statsSource interface {
	FetchStats(ctx context.Context) (dashboard.Stats, error)
}

// StoreStatsQuery executes a read-only statistics fetch.
type StoreStatsQuery struct {
	source statsSource
}

// NewStoreStatsQuery builds the query.
func NewStoreStatsQuery(source statsSource) *StoreStatsQuery {
	return &StoreStatsQuery{source: source}
}

var _ gocommand.Querier[StoreStatsInput, dashboard.Stats] = (*StoreStatsQuery)(nil)

// Query fetches the current counters.
func (q *StoreStatsQuery) Query(ctx context.Context, _ StoreStatsInput) (dashboard.Stats, error) {
	return q.source.FetchStats(ctx)
}
