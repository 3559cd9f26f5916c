package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-grocery/components/catalog"
	catalogcmd "github.com/goliatone/go-grocery/components/catalog/commands"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/dashboard/queries"
	"github.com/goliatone/go-grocery/components/orders"
	ordercmd "github.com/goliatone/go-grocery/components/orders/commands"
	"github.com/goliatone/go-grocery/pkg/config"
	"github.com/goliatone/go-grocery/pkg/money"
	"github.com/goliatone/go-grocery/pkg/notify"
	"github.com/goliatone/go-grocery/pkg/storeapi"
	"github.com/goliatone/go-grocery/pkg/telemetry"
)

var version = "dev"

type cli struct {
	APIURL   string        `name:"api-url" help:"Store API base URL (overrides config)."`
	APIKey   string        `name:"api-key" help:"Bearer token sent to the store API."`
	Timeout  time.Duration `help:"HTTP timeout for store API calls."`
	Config   string        `type:"path" help:"Path to a YAML config file."`
	Mock     bool          `help:"Run against an in-memory mock store instead of a live API."`
	LogLevel string        `name:"log-level" help:"Log level (debug, info, warn, error)."`

	Products  productsCmd  `cmd:"" help:"Manage the product catalog."`
	Orders    ordersCmd    `cmd:"" help:"Review and place orders."`
	Stats     statsCmd     `cmd:"" help:"Show store statistics."`
	Dashboard dashboardCmd `cmd:"" help:"Show the combined store overview."`
	Version   versionCmd   `cmd:"" help:"Print the version."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Name("groceryctl"),
		kong.Description("Back-office client for the grocery store API."),
		kong.UsageOnError(),
	)
	app, err := newAppEnv(root)
	ctx.FatalIfErrorf(err)
	defer app.logger.Sync()

	err = ctx.Run(context.Background(), app)
	ctx.FatalIfErrorf(err)
}

// appEnv carries the shared wiring every subcommand builds on: config,
// logger, the store client, and the toast printer.
type appEnv struct {
	cfg        *config.Config
	logger     *zap.Logger
	recorder   *telemetry.Recorder
	client     storeapi.Client
	notifier   notify.Notifier
	formatter  *money.Formatter
	thresholds catalog.Thresholds
}

func newAppEnv(root *cli) (*appEnv, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("groceryctl: load config: %w", err)
	}
	if root.APIURL != "" {
		cfg.API.BaseURL = root.APIURL
	}
	if root.APIKey != "" {
		cfg.API.Key = root.APIKey
	}
	if root.Timeout > 0 {
		cfg.API.Timeout = root.Timeout
	}
	if root.LogLevel != "" {
		cfg.Log.Level = root.LogLevel
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("groceryctl: build logger: %w", err)
	}
	logger = logger.With(zap.String("trace_id", uuid.NewString()))

	var client storeapi.Client
	if root.Mock {
		client = storeapi.NewMockClient()
	} else {
		client, err = storeapi.NewHTTPClient(storeapi.HTTPConfig{
			BaseURL:    cfg.API.BaseURL,
			APIKey:     cfg.API.Key,
			HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		})
		if err != nil {
			return nil, err
		}
	}

	return &appEnv{
		cfg:        cfg,
		logger:     logger,
		recorder:   telemetry.NewRecorder(logger),
		client:     client,
		notifier:   newToastPrinter(os.Stdout),
		formatter:  money.NewFormatter(cfg.Currency.Symbol, cfg.Currency.Locale),
		thresholds: catalog.Thresholds{Danger: cfg.Stock.DangerThreshold, Warning: cfg.Stock.WarningThreshold},
	}, nil
}

func (a *appEnv) catalogManager() *catalog.Manager {
	return catalog.NewManager(catalog.Options{
		Client:     a.client,
		Notifier:   a.notifier,
		Telemetry:  a.recorder,
		Formatter:  a.formatter,
		Thresholds: a.thresholds,
	})
}

func (a *appEnv) orderComposer() *orders.Composer {
	return orders.NewComposer(orders.Options{
		Client:    a.client,
		Notifier:  a.notifier,
		Telemetry: a.recorder,
		Formatter: a.formatter,
	})
}

// newToastPrinter renders component toasts as terminal lines, e.g.
// "[SUCCESS] Product added successfully".
func newToastPrinter(out io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(_ context.Context, toast notify.Toast) {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(toast.Level)), toast.Message)
	})
}

type productsCmd struct {
	List   productsListCmd   `cmd:"" help:"List catalog products with stock status."`
	Add    productsAddCmd    `cmd:"" help:"Add a product to the catalog."`
	Update productsUpdateCmd `cmd:"" help:"Update a product's fields."`
	Delete productsDeleteCmd `cmd:"" help:"Delete a product."`
	Import productsImportCmd `cmd:"" help:"Create products from a manifest file."`
	Export productsExportCmd `cmd:"" help:"Write the current catalog to a manifest file."`
}

type productsListCmd struct {
	LowStock bool `name:"low-stock" help:"Only show products at or below the warning threshold."`
}

func (cmd *productsListCmd) Run(ctx context.Context, app *appEnv) error {
	manager := app.catalogManager()
	if err := manager.Load(ctx); err != nil {
		return err
	}
	products := manager.Products()
	if cmd.LowStock {
		kept := products[:0]
		for _, p := range products {
			if app.thresholds.Severity(p.Stock) != catalog.SeverityNormal {
				kept = append(kept, p)
			}
		}
		products = kept
	}
	return writeProductTable(os.Stdout, products, app.formatter, app.thresholds)
}

type productsAddCmd struct {
	Name  string `required:"" help:"Product name."`
	Unit  string `required:"" help:"Unit of sale (kg, litre, piece, grams, ml)."`
	Price string `required:"" help:"Price per unit."`
	Stock string `default:"0" help:"Initial stock quantity."`
}

func (cmd *productsAddCmd) Run(ctx context.Context, app *appEnv) error {
	create := catalogcmd.NewCreateProductCommand(app.catalogManager(), app.recorder)
	form := catalog.Form{Name: cmd.Name, Unit: cmd.Unit, Price: cmd.Price, Stock: cmd.Stock}
	if err := create.Execute(ctx, catalogcmd.CreateProductInput{Form: form}); err != nil {
		return describeCatalogValidation(err)
	}
	return nil
}

type productsUpdateCmd struct {
	ID    int     `arg:"" help:"Product id."`
	Name  *string `help:"New product name."`
	Unit  *string `help:"New unit of sale."`
	Price *string `help:"New price per unit."`
	Stock *string `help:"New stock quantity."`
}

func (cmd *productsUpdateCmd) Run(ctx context.Context, app *appEnv) error {
	manager := app.catalogManager()
	if err := manager.Load(ctx); err != nil {
		return err
	}
	product, ok := manager.Product(cmd.ID)
	if !ok {
		return fmt.Errorf("groceryctl: product %d not found", cmd.ID)
	}

	// Flags that were not passed keep the product's current values.
	form := catalog.Form{
		Name:  product.Name,
		Unit:  product.Unit,
		Price: product.Price.StringFixed(2),
		Stock: strconv.Itoa(product.Stock),
	}
	if cmd.Name != nil {
		form.Name = *cmd.Name
	}
	if cmd.Unit != nil {
		form.Unit = *cmd.Unit
	}
	if cmd.Price != nil {
		form.Price = *cmd.Price
	}
	if cmd.Stock != nil {
		form.Stock = *cmd.Stock
	}

	update := catalogcmd.NewUpdateProductCommand(manager, app.recorder)
	if err := update.Execute(ctx, catalogcmd.UpdateProductInput{ID: cmd.ID, Form: form}); err != nil {
		return describeCatalogValidation(err)
	}
	return nil
}

type productsDeleteCmd struct {
	ID      int  `arg:"" help:"Product id."`
	Confirm bool `help:"Confirm the delete; without it nothing is removed."`
}

func (cmd *productsDeleteCmd) Run(ctx context.Context, app *appEnv) error {
	remove := catalogcmd.NewDeleteProductCommand(app.catalogManager(), app.recorder)
	err := remove.Execute(ctx, catalogcmd.DeleteProductInput{ID: cmd.ID, Confirm: cmd.Confirm})
	if errors.Is(err, catalogcmd.ErrDeleteNotConfirmed) {
		return fmt.Errorf("groceryctl: re-run with --confirm to delete product %d", cmd.ID)
	}
	return err
}

type productsImportCmd struct {
	Manifest string `required:"" type:"path" help:"Path to the catalog manifest YAML/JSON file."`
}

func (cmd *productsImportCmd) Run(ctx context.Context, app *appEnv) error {
	importer := catalogcmd.NewImportManifestCommand(app.catalogManager(), app.recorder)
	return importer.Execute(ctx, catalogcmd.ImportManifestInput{Path: cmd.Manifest})
}

type productsExportCmd struct {
	Manifest string `required:"" type:"path" help:"Destination manifest path."`
}

func (cmd *productsExportCmd) Run(ctx context.Context, app *appEnv) error {
	manager := app.catalogManager()
	if err := manager.Load(ctx); err != nil {
		return err
	}
	doc := manager.ExportManifest()
	if err := catalog.WriteManifest(cmd.Manifest, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Exported %d products to %s\n", len(doc.Products), cmd.Manifest)
	return nil
}

type ordersCmd struct {
	Recent ordersRecentCmd `cmd:"" help:"List recent orders, newest first."`
	Submit ordersSubmitCmd `cmd:"" help:"Place an order."`
}

type ordersRecentCmd struct {
	Page    int `default:"1" help:"Page to show."`
	PerPage int `name:"per-page" help:"Orders per page (defaults to config)."`
}

func (cmd *ordersRecentCmd) Run(ctx context.Context, app *appEnv) error {
	perPage := cmd.PerPage
	if perPage <= 0 {
		perPage = app.cfg.Orders.PerPage
	}
	recent := queries.NewRecentOrdersQuery(app.client)
	page, err := recent.Query(ctx, dashboard.OrdersQuery{Page: cmd.Page, PerPage: perPage})
	if err != nil {
		return err
	}
	if err := writeOrderTable(os.Stdout, page.Orders, app.formatter); err != nil {
		return err
	}
	totalPages := (page.Total + page.PerPage - 1) / page.PerPage
	if totalPages < 1 {
		totalPages = 1
	}
	fmt.Fprintf(os.Stdout, "Page %d of %d (%d orders)\n", page.Page, totalPages, page.Total)
	return nil
}

type ordersSubmitCmd struct {
	Customer string   `required:"" help:"Customer name."`
	Item     []string `required:"" help:"Order line as 'Product=Qty' (repeat for more lines)."`
}

func (cmd *ordersSubmitCmd) Run(ctx context.Context, app *appEnv) error {
	items := make([]orders.Item, 0, len(cmd.Item))
	for _, raw := range cmd.Item {
		item, err := orders.ParseItem(raw)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	submit := ordercmd.NewSubmitOrderCommand(app.orderComposer(), app.recorder)
	input := ordercmd.SubmitOrderInput{CustomerName: cmd.Customer, Items: items}
	if err := submit.Execute(ctx, input); err != nil {
		return describeOrderValidation(err)
	}
	return nil
}

type statsCmd struct{}

func (cmd *statsCmd) Run(ctx context.Context, app *appEnv) error {
	stats, err := queries.NewStoreStatsQuery(app.client).Query(ctx, queries.StoreStatsInput{})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total Orders\t%d\n", stats.TotalOrders)
	fmt.Fprintf(w, "Total Revenue\t%s\n", app.formatter.Format(stats.TotalRevenue))
	fmt.Fprintf(w, "Today's Orders\t%d\n", stats.TodayOrders)
	fmt.Fprintf(w, "Today's Revenue\t%s\n", app.formatter.Format(stats.TodayRevenue))
	fmt.Fprintf(w, "Total Products\t%d\n", stats.TotalProducts)
	fmt.Fprintf(w, "Low Stock Products\t%d\n", stats.LowStockProducts)
	return w.Flush()
}

type dashboardCmd struct {
	Recent int `help:"Recent orders to include (defaults to 10)."`
}

func (cmd *dashboardCmd) Run(ctx context.Context, app *appEnv) error {
	orch, err := dashboard.NewOrchestrator(dashboard.Options{
		Products:    app.client,
		Orders:      app.client,
		Stats:       app.client,
		Notifier:    app.notifier,
		Telemetry:   app.recorder,
		Formatter:   app.formatter,
		Thresholds:  app.thresholds,
		RecentLimit: cmd.Recent,
	})
	if err != nil {
		return err
	}
	snapshot := orch.Refresh(ctx)
	if len(snapshot.Failures) == 3 {
		return fmt.Errorf("groceryctl: dashboard refresh failed")
	}

	fmt.Fprintln(os.Stdout, "STORE OVERVIEW")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, card := range snapshot.Cards {
		fmt.Fprintf(w, "%s\t%s\n", card.Label, card.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var low []catalog.Product
	for _, p := range snapshot.Products {
		if app.thresholds.Severity(p.Stock) != catalog.SeverityNormal {
			low = append(low, p)
		}
	}
	if len(low) > 0 {
		fmt.Fprintln(os.Stdout, "\nLOW STOCK")
		if err := writeProductTable(os.Stdout, low, app.formatter, app.thresholds); err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stdout, "\nRECENT ORDERS")
	return writeOrderTable(os.Stdout, snapshot.Orders, app.formatter)
}

type versionCmd struct{}

func (cmd *versionCmd) Run(_ context.Context) error {
	fmt.Fprintf(os.Stdout, "groceryctl %s\n", version)
	return nil
}

func writeProductTable(out io.Writer, products []catalog.Product, formatter *money.Formatter, thresholds catalog.Thresholds) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUNIT\tPRICE\tSTOCK\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Name, p.Unit, formatter.Format(p.Price), p.Stock, thresholds.Severity(p.Stock))
	}
	return w.Flush()
}

func writeOrderTable(out io.Writer, summaries []dashboard.OrderSummary, formatter *money.Formatter) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tCUSTOMER\tITEMS\tTOTAL\tPLACED")
	for _, order := range summaries {
		items := order.Items
		if items == "" {
			items = "-"
		}
		placed := "-"
		if !order.PlacedAt.IsZero() {
			placed = order.PlacedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			order.Number, order.Customer, items, formatter.Format(order.Total), placed)
	}
	return w.Flush()
}

// describeCatalogValidation prints per-field messages before handing the
// error back to kong.
func describeCatalogValidation(err error) error {
	var v *catalog.ValidationError
	if errors.As(err, &v) {
		for _, fe := range v.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}

func describeOrderValidation(err error) error {
	var v *orders.ValidationError
	if errors.As(err, &v) {
		for _, fe := range v.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}
