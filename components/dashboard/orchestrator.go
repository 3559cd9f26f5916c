package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/pkg/money"
	"github.com/goliatone/go-grocery/pkg/notify"
	"github.com/goliatone/go-grocery/pkg/sanitize"
)

var (
	errMissingProductSource = errors.New("dashboard: product source not configured")
	errMissingOrderSource   = errors.New("dashboard: order source not configured")
	errMissingStatsSource   = errors.New("dashboard: stats source not configured")
)

// DefaultRecentLimit caps the recent-orders branch of a refresh.
const DefaultRecentLimit = 10

// statPlaceholder is what cards show when the stats branch failed.
const statPlaceholder = "-"

// Options wires the orchestrator's data sources and collaborators. The three
// sources are required; nil notifier, telemetry and formatter fall back to
// safe defaults.
type Options struct {
	Products    ProductSource
	Orders      OrderSource
	Stats       StatsSource
	Notifier    notify.Notifier
	Telemetry   Telemetry
	Formatter   *money.Formatter
	Thresholds  catalog.Thresholds
	RecentLimit int
}

// Orchestrator fans the three dashboard fetches out concurrently and folds
// the results into a Snapshot. Construct one per surface; there are no
// package-level instances.
type Orchestrator struct {
	products    ProductSource
	orders      OrderSource
	stats       StatsSource
	notifier    notify.Notifier
	telemetry   Telemetry
	formatter   *money.Formatter
	thresholds  catalog.Thresholds
	recentLimit int
	now         func() time.Time

	mu   sync.Mutex
	subs map[int]chan Snapshot
	next int
}

// NewOrchestrator builds an orchestrator from options.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Products == nil {
		return nil, errMissingProductSource
	}
	if opts.Orders == nil {
		return nil, errMissingOrderSource
	}
	if opts.Stats == nil {
		return nil, errMissingStatsSource
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NotifierFunc(func(context.Context, notify.Toast) {})
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = money.NewFormatter("", "")
	}
	limit := opts.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Orchestrator{
		products:    opts.Products,
		orders:      opts.Orders,
		stats:       opts.Stats,
		notifier:    notifier,
		telemetry:   normalizeTelemetry(opts.Telemetry),
		formatter:   formatter,
		thresholds:  opts.Thresholds.Normalize(),
		recentLimit: limit,
		now:         time.Now,
		subs:        make(map[int]chan Snapshot),
	}, nil
}

// Refresh fetches all three branches concurrently and returns the combined
// snapshot. Branches do not share cancellation: one failing or stalling
// source cannot cancel its siblings, it only lands in Snapshot.Failures.
// Each failure also produces a telemetry record and one error toast.
func (o *Orchestrator) Refresh(ctx context.Context) Snapshot {
	snap := Snapshot{GeneratedAt: o.now()}

	var mu sync.Mutex
	fail := func(branch string, err error) {
		mu.Lock()
		snap.Failures = append(snap.Failures, BranchError{Branch: branch, Err: err})
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		products, err := o.products.FetchProducts(ctx)
		if err != nil {
			fail(BranchProducts, err)
			return
		}
		mu.Lock()
		snap.Products = products
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		page, err := o.orders.FetchOrders(ctx, OrdersQuery{Page: 1, PerPage: o.recentLimit})
		if err != nil {
			fail(BranchOrders, err)
			return
		}
		mu.Lock()
		snap.Orders = page.Orders
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		stats, err := o.stats.FetchStats(ctx)
		if err != nil {
			fail(BranchStats, err)
			return
		}
		mu.Lock()
		snap.Stats = stats
		mu.Unlock()
	}()
	wg.Wait()

	o.project(&snap)
	o.report(ctx, snap)
	o.broadcast(snap)
	return snap
}

// project fills the render-ready views from the raw branch data.
func (o *Orchestrator) project(snap *Snapshot) {
	if snap.Failed(BranchStats) {
		for _, label := range statLabels {
			snap.Cards = append(snap.Cards, StatCard{Label: label, Value: statPlaceholder})
		}
	} else {
		snap.Cards = []StatCard{
			{Label: statLabels[0], Value: strconv.Itoa(snap.Stats.TotalOrders)},
			{Label: statLabels[1], Value: o.formatter.Format(snap.Stats.TotalRevenue)},
			{Label: statLabels[2], Value: strconv.Itoa(snap.Stats.TodayOrders)},
			{Label: statLabels[3], Value: o.formatter.Format(snap.Stats.TodayRevenue)},
			{Label: statLabels[4], Value: strconv.Itoa(snap.Stats.TotalProducts)},
			{Label: statLabels[5], Value: strconv.Itoa(snap.Stats.LowStockProducts)},
		}
	}

	snap.ProductRows = make([]catalog.Row, len(snap.Products))
	for i, p := range snap.Products {
		snap.ProductRows[i] = catalog.Row{
			ID:         p.ID,
			Name:       sanitize.EscapeHTML(p.Name),
			Unit:       p.Unit,
			PriceLabel: o.formatter.Format(p.Price),
			Stock:      p.Stock,
			Severity:   o.thresholds.Severity(p.Stock),
		}
	}

	snap.OrderRows = make([]OrderRow, len(snap.Orders))
	for i, order := range snap.Orders {
		snap.OrderRows[i] = OrderRow{
			Number:     order.Number,
			Customer:   sanitize.EscapeHTML(order.Customer),
			Items:      sanitize.EscapeHTML(order.Items),
			TotalLabel: o.formatter.Format(order.Total),
			PlacedAt:   order.PlacedAt,
		}
	}
}

var statLabels = [...]string{
	"Total Orders",
	"Total Revenue",
	"Today's Orders",
	"Today's Revenue",
	"Total Products",
	"Low Stock Products",
}

func (o *Orchestrator) report(ctx context.Context, snap Snapshot) {
	for _, f := range snap.Failures {
		o.telemetry.Record(ctx, "dashboard.refresh.error", map[string]any{
			"branch": f.Branch,
			"error":  f.Err.Error(),
		})
		o.notifier.Notify(ctx, notify.Error(branchToast(f.Branch)))
	}
	o.telemetry.Record(ctx, "dashboard.refresh", map[string]any{
		"products": len(snap.Products),
		"orders":   len(snap.Orders),
		"failures": len(snap.Failures),
	})
}

func branchToast(branch string) string {
	switch branch {
	case BranchProducts:
		return "Failed to load products"
	case BranchOrders:
		return "Failed to load recent orders"
	case BranchStats:
		return "Failed to load statistics"
	default:
		return "Failed to load dashboard"
	}
}

// Subscribe returns a channel that receives every snapshot produced by
// Refresh, and a cancel func. Slow subscribers drop snapshots rather than
// block a refresh.
func (o *Orchestrator) Subscribe() (<-chan Snapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.next
	o.next++
	ch := make(chan Snapshot, 8)
	o.subs[id] = ch
	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (o *Orchestrator) broadcast(snap Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ch := range o.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
