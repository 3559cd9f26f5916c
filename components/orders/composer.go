package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/pkg/money"
	"github.com/goliatone/go-grocery/pkg/notify"
	"github.com/goliatone/go-grocery/pkg/sanitize"
)

var (
	errMissingClient  = errors.New("orders: store client not configured")
	errUnknownLine    = errors.New("orders: unknown line key")
	errUnknownProduct = errors.New("orders: unknown product id")
)

// Validation messages mirror the store API so local rejections and server
// rejections read the same.
const (
	msgCustomerTooShort = "Customer name must be at least 2 characters"
	msgCustomerCharset  = "Customer name contains invalid characters"
	msgNoItems          = "At least one item is required"
)

// Options wires the composer's collaborators. Nil notifier, telemetry and
// formatter fall back to safe defaults.
type Options struct {
	Client    Client
	Notifier  notify.Notifier
	Telemetry Telemetry
	Formatter *money.Formatter
}

// Composer owns the order form state: the customer name, a keyed list of
// item lines, and the validation results of the last submit attempt.
// Construct one per surface; there are no package-level instances.
type Composer struct {
	client    Client
	notifier  notify.Notifier
	telemetry Telemetry
	formatter *money.Formatter

	mu        sync.RWMutex
	products  []catalog.Product
	lines     []Line
	customer  string
	fieldErrs []FieldError
}

// NewComposer builds a composer from options. It starts with one empty line
// so the form is never rendered without a row.
func NewComposer(opts Options) *Composer {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NotifierFunc(func(context.Context, notify.Toast) {})
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = money.NewFormatter("", "")
	}
	composer := &Composer{
		client:    opts.Client,
		notifier:  notifier,
		telemetry: normalizeTelemetry(opts.Telemetry),
		formatter: formatter,
	}
	composer.lines = []Line{composer.freshLine()}
	return composer
}

func (c *Composer) freshLine() Line {
	return Line{Key: uuid.NewString(), Quantity: 1}
}

// Load fetches the catalog the pickers select from and reconciles existing
// lines against it: selections whose product disappeared are cleared, the
// rest pick up current price and stock, and quantities are re-clamped.
func (c *Composer) Load(ctx context.Context) error {
	if c.client == nil {
		return errMissingClient
	}
	products, err := c.client.FetchProducts(ctx)
	if err != nil {
		c.telemetry.Record(ctx, "orders.load.error", map[string]any{"error": err.Error()})
		return err
	}

	c.mu.Lock()
	c.products = products
	byID := make(map[int]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range c.lines {
		line := &c.lines[i]
		if line.ProductID == 0 {
			continue
		}
		product, ok := byID[line.ProductID]
		if !ok {
			*line = Line{Key: line.Key, Quantity: 1}
			continue
		}
		line.ProductName = product.Name
		line.Unit = product.Unit
		line.UnitPrice = product.Price
		line.Stock = product.Stock
		line.Quantity = clampQuantity(line.Quantity, product.Stock, true)
	}
	c.mu.Unlock()

	c.telemetry.Record(ctx, "orders.load", map[string]any{"count": len(products)})
	return nil
}

// Products returns a copy of the loaded catalog in server order.
func (c *Composer) Products() []catalog.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]catalog.Product(nil), c.products...)
}

// Lines returns a copy of the item rows in display order.
func (c *Composer) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Line(nil), c.lines...)
}

// Line looks a row up by key.
func (c *Composer) Line(key string) (Line, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.lineIndex(key); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Composer) lineIndex(key string) int {
	for i, line := range c.lines {
		if line.Key == key {
			return i
		}
	}
	return -1
}

// AddLine appends an empty row and returns its key.
func (c *Composer) AddLine() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := c.freshLine()
	c.lines = append(c.lines, line)
	return line.Key
}

// RemoveLine deletes the row with the given key. The form always keeps at
// least one row: removing the last remaining line clears it in place
// instead, preserving its key.
func (c *Composer) RemoveLine(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.lineIndex(key)
	if i < 0 {
		return fmt.Errorf("orders: line %q: %w", key, errUnknownLine)
	}
	if len(c.lines) == 1 {
		c.lines[0] = Line{Key: key, Quantity: 1}
		return nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// SelectProduct binds a row to a catalog product and re-clamps its
// quantity. Product id zero clears the selection.
func (c *Composer) SelectProduct(key string, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.lineIndex(key)
	if i < 0 {
		return fmt.Errorf("orders: line %q: %w", key, errUnknownLine)
	}
	if productID == 0 {
		c.lines[i] = Line{Key: key, Quantity: 1}
		return nil
	}
	var product catalog.Product
	found := false
	for _, p := range c.products {
		if p.ID == productID {
			product = p
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("orders: product id %d: %w", productID, errUnknownProduct)
	}
	line := &c.lines[i]
	line.ProductID = product.ID
	line.ProductName = product.Name
	line.Unit = product.Unit
	line.UnitPrice = product.Price
	line.Stock = product.Stock
	line.Quantity = clampQuantity(line.Quantity, product.Stock, true)
	return nil
}

// SetQuantity parses the raw quantity input and stores the clamped value.
// Unparseable input falls back to the row's minimum; values above the
// available stock clamp down to it.
func (c *Composer) SetQuantity(key, input string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.lineIndex(key)
	if i < 0 {
		return fmt.Errorf("orders: line %q: %w", key, errUnknownLine)
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		parsed = 1
	}
	line := &c.lines[i]
	line.Quantity = clampQuantity(parsed, line.Stock, line.ProductID != 0)
	return nil
}

// clampQuantity keeps q inside the orderable range. Rows bound to an
// out-of-stock product clamp to zero and stay ineligible until stock comes
// back.
func clampQuantity(q, stock int, selected bool) int {
	if selected && stock <= 0 {
		return 0
	}
	if q < 1 {
		return 1
	}
	if selected && q > stock {
		return stock
	}
	return q
}

// SetCustomer stores the customer name, stripping characters the store API
// would reject as it is typed.
func (c *Composer) SetCustomer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = sanitize.CustomerName(name)
}

// CustomerName returns the current customer input.
func (c *Composer) CustomerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.customer
}

// Total sums every line's subtotal as exact decimals.
func (c *Composer) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// TotalLabel formats the running total for display.
func (c *Composer) TotalLabel() string {
	return c.formatter.Format(c.Total())
}

// FieldErrors returns the validation results of the last submit attempt.
func (c *Composer) FieldErrors() []FieldError {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]FieldError(nil), c.fieldErrs...)
}

func validateCustomer(name string) []FieldError {
	var fieldErrs []FieldError
	switch {
	case utf8.RuneCountInString(name) < 2:
		fieldErrs = append(fieldErrs, FieldError{Field: "customer", Message: msgCustomerTooShort})
	case !sanitize.CustomerNamePattern.MatchString(name):
		fieldErrs = append(fieldErrs, FieldError{Field: "customer", Message: msgCustomerCharset})
	}
	return fieldErrs
}

// Submit validates the form and sends it to the store API. Validation
// failures surface as an error toast plus a ValidationError and never reach
// the network. On success the composer resets to a single empty line and
// refreshes the catalog so stock levels reflect the new order.
func (c *Composer) Submit(ctx context.Context) (Receipt, error) {
	if c.client == nil {
		return Receipt{}, errMissingClient
	}

	c.mu.Lock()
	name := strings.TrimSpace(c.customer)
	fieldErrs := validateCustomer(name)
	var items []Item
	for _, line := range c.lines {
		if line.eligible() {
			items = append(items, Item{ProductName: line.ProductName, Quantity: line.Quantity})
		}
	}
	if len(items) == 0 {
		fieldErrs = append(fieldErrs, FieldError{Field: "items", Message: msgNoItems})
	}
	c.fieldErrs = fieldErrs
	c.mu.Unlock()

	if len(fieldErrs) > 0 {
		c.notifier.Notify(ctx, notify.Error(fieldErrs[0].Message))
		return Receipt{}, &ValidationError{Fields: fieldErrs}
	}
	return c.submitDraft(ctx, Draft{CustomerName: name, Items: items})
}

// PlaceOrder validates and submits an order assembled outside the form, for
// headless callers. Unlike the form path it refuses rather than clamps:
// unknown products and quantities above stock come back as a
// ValidationError carrying the store API's wording.
func (c *Composer) PlaceOrder(ctx context.Context, customer string, items []Item) (Receipt, error) {
	if c.client == nil {
		return Receipt{}, errMissingClient
	}
	if len(c.Products()) == 0 {
		if err := c.Load(ctx); err != nil {
			return Receipt{}, err
		}
	}

	name := strings.TrimSpace(customer)
	fieldErrs := validateCustomer(name)
	if len(items) == 0 {
		fieldErrs = append(fieldErrs, FieldError{Field: "items", Message: msgNoItems})
	}

	products := c.Products()
	var draftItems []Item
	for _, item := range items {
		var product catalog.Product
		found := false
		for _, p := range products {
			if strings.EqualFold(p.Name, strings.TrimSpace(item.ProductName)) {
				product = p
				found = true
				break
			}
		}
		switch {
		case !found:
			fieldErrs = append(fieldErrs, FieldError{Field: "items", Message: fmt.Sprintf("Product '%s' not found", item.ProductName)})
		case item.Quantity < 1:
			fieldErrs = append(fieldErrs, FieldError{Field: "items", Message: fmt.Sprintf("Quantity for '%s' must be at least 1", product.Name)})
		case item.Quantity > product.Stock:
			fieldErrs = append(fieldErrs, FieldError{Field: "items", Message: fmt.Sprintf("Insufficient stock for '%s'. Available: %d, Requested: %d", product.Name, product.Stock, item.Quantity)})
		default:
			draftItems = append(draftItems, Item{ProductName: product.Name, Quantity: item.Quantity})
		}
	}
	if len(fieldErrs) > 0 {
		return Receipt{}, &ValidationError{Fields: fieldErrs}
	}
	return c.submitDraft(ctx, Draft{CustomerName: name, Items: draftItems})
}

func (c *Composer) submitDraft(ctx context.Context, draft Draft) (Receipt, error) {
	receipt, err := c.client.SubmitOrder(ctx, draft)
	if err != nil {
		c.telemetry.Record(ctx, "orders.submit.error", map[string]any{"error": err.Error()})
		c.notifier.Notify(ctx, notify.Error(toastMessage(err)))
		return Receipt{}, err
	}
	c.telemetry.Record(ctx, "orders.submit", map[string]any{
		"order_number": receipt.OrderNumber,
		"total":        receipt.Total.StringFixed(2),
		"items":        len(draft.Items),
	})
	c.notifier.Notify(ctx, notify.Success(fmt.Sprintf("Order %s created successfully", receipt.OrderNumber)))
	c.Reset()
	if err := c.Load(ctx); err != nil {
		c.notifier.Notify(ctx, notify.Error(toastMessage(err)))
	}
	return receipt, nil
}

// Reset clears the form back to an empty customer and a single fresh line.
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = ""
	c.fieldErrs = nil
	c.lines = []Line{c.freshLine()}
}

// ParseItem parses a "Product=Quantity" argument into an Item.
func ParseItem(s string) (Item, error) {
	name, quantity, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if !ok || name == "" || quantity == "" {
		return Item{}, fmt.Errorf("orders: item %q must use the form Product=Quantity", s)
	}
	n, err := strconv.Atoi(quantity)
	if err != nil || n < 1 {
		return Item{}, fmt.Errorf("orders: item %q needs a positive whole quantity", s)
	}
	return Item{ProductName: name, Quantity: n}, nil
}
