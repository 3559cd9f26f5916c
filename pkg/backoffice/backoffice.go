// Package backoffice wires the store components behind one constructor for
// embedders that want the whole client surface configured consistently.
package backoffice

import (
	"context"
	"errors"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/orders"
	"github.com/goliatone/go-grocery/pkg/money"
	"github.com/goliatone/go-grocery/pkg/notify"
	"github.com/goliatone/go-grocery/pkg/storeapi"
)

// Telemetry receives the events every component emits.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Options configures the shared wiring. Client is required; everything else
// falls back to each component's defaults.
type Options struct {
	Client      storeapi.Client
	Notifier    notify.Notifier
	Telemetry   Telemetry
	Formatter   *money.Formatter
	Thresholds  catalog.Thresholds
	RecentLimit int
}

// Backoffice bundles one manager, composer and orchestrator built over the
// same client, notifier and formatter.
type Backoffice struct {
	Catalog   *catalog.Manager
	Orders    *orders.Composer
	Dashboard *dashboard.Orchestrator
}

// New wires the three components.
func New(opts Options) (*Backoffice, error) {
	if opts.Client == nil {
		return nil, errors.New("backoffice: client is required")
	}

	manager := catalog.NewManager(catalog.Options{
		Client:     opts.Client,
		Notifier:   opts.Notifier,
		Telemetry:  opts.Telemetry,
		Formatter:  opts.Formatter,
		Thresholds: opts.Thresholds,
	})
	composer := orders.NewComposer(orders.Options{
		Client:    opts.Client,
		Notifier:  opts.Notifier,
		Telemetry: opts.Telemetry,
		Formatter: opts.Formatter,
	})
	orchestrator, err := dashboard.NewOrchestrator(dashboard.Options{
		Products:    opts.Client,
		Orders:      opts.Client,
		Stats:       opts.Client,
		Notifier:    opts.Notifier,
		Telemetry:   opts.Telemetry,
		Formatter:   opts.Formatter,
		Thresholds:  opts.Thresholds,
		RecentLimit: opts.RecentLimit,
	})
	if err != nil {
		return nil, err
	}

	return &Backoffice{
		Catalog:   manager,
		Orders:    composer,
		Dashboard: orchestrator,
	}, nil
}
