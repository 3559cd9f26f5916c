package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/goliatone/go-grocery/pkg/money"
	"github.com/goliatone/go-grocery/pkg/notify"
	"github.com/goliatone/go-grocery/pkg/sanitize"
)

var (
	errMissingClient   = errors.New("catalog: store client not configured")
	errNoOpenForm      = errors.New("catalog: no product form open")
	errNoPendingDelete = errors.New("catalog: no delete confirmation pending")
)

// Options wires the manager's collaborators. Nil notifier, telemetry and
// formatter fall back to safe defaults.
type Options struct {
	Client     Client
	Notifier   notify.Notifier
	Telemetry  Telemetry
	Formatter  *money.Formatter
	Thresholds Thresholds
}

// Manager owns the product catalog state: the fetched list, the add/edit
// form, and the delete confirmation. Construct one per surface; there are no
// package-level instances.
type Manager struct {
	client     Client
	notifier   notify.Notifier
	telemetry  Telemetry
	formatter  *money.Formatter
	thresholds Thresholds

	mu            sync.RWMutex
	products      []Product
	formOpen      bool
	editID        int
	form          Form
	fieldErrors   []FieldError
	pendingDelete int
}

// NewManager builds a manager from options.
func NewManager(opts Options) *Manager {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NotifierFunc(func(context.Context, notify.Toast) {})
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = money.NewFormatter("", "")
	}
	return &Manager{
		client:     opts.Client,
		notifier:   notifier,
		telemetry:  normalizeTelemetry(opts.Telemetry),
		formatter:  formatter,
		thresholds: opts.Thresholds.Normalize(),
	}
}

// Load fetches the catalog and replaces the list state. Mutations call it
// again afterwards instead of patching the slice locally.
func (m *Manager) Load(ctx context.Context) error {
	if m.client == nil {
		return errMissingClient
	}
	products, err := m.client.FetchProducts(ctx)
	if err != nil {
		m.telemetry.Record(ctx, "catalog.load.error", map[string]any{"error": err.Error()})
		return err
	}
	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
	m.telemetry.Record(ctx, "catalog.load", map[string]any{"count": len(products)})
	return nil
}

// Products returns a copy of the loaded catalog in server order.
func (m *Manager) Products() []Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Product(nil), m.products...)
}

// Product looks a catalog entry up by id.
func (m *Manager) Product(id int) (Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Rows projects the catalog into render-ready table rows.
func (m *Manager) Rows() []Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]Row, len(m.products))
	for i, p := range m.products {
		rows[i] = Row{
			ID:         p.ID,
			Name:       sanitize.EscapeHTML(p.Name),
			Unit:       p.Unit,
			PriceLabel: m.formatter.Format(p.Price),
			Stock:      p.Stock,
			Severity:   m.thresholds.Severity(p.Stock),
		}
	}
	return rows
}

// OpenCreate opens an empty product form.
func (m *Manager) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formOpen = true
	m.editID = 0
	m.form = Form{}
	m.fieldErrors = nil
}

// OpenEdit opens the form pre-filled from an existing product.
func (m *Manager) OpenEdit(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID != id {
			continue
		}
		m.formOpen = true
		m.editID = id
		m.form = Form{
			Name:  p.Name,
			Unit:  p.Unit,
			Price: p.Price.StringFixed(2),
			Stock: strconv.Itoa(p.Stock),
		}
		m.fieldErrors = nil
		return nil
	}
	return fmt.Errorf("catalog: product %d not found", id)
}

// CloseForm discards the open form and its errors.
func (m *Manager) CloseForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formOpen = false
	m.editID = 0
	m.form = Form{}
	m.fieldErrors = nil
}

// FormOpen reports whether the form is showing and which product id it
// edits (zero when adding).
func (m *Manager) FormOpen() (bool, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.formOpen, m.editID
}

// FormValues returns the raw form fields.
func (m *Manager) FormValues() Form {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.form
}

// SetName records the name field, stripping runes the catalog never accepts.
func (m *Manager) SetName(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Name = sanitize.ProductName(s)
}

// SetUnit records the unit selection.
func (m *Manager) SetUnit(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Unit = s
}

// SetPrice records the raw price input.
func (m *Manager) SetPrice(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Price = s
}

// SetStock records the raw stock input.
func (m *Manager) SetStock(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Stock = s
}

// FieldErrors returns the messages recorded by the last validation.
func (m *Manager) FieldErrors() []FieldError {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FieldError(nil), m.fieldErrors...)
}

// Validate re-checks the open form and records field messages.
func (m *Manager) Validate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, fieldErrs := ValidateForm(m.form)
	m.fieldErrors = fieldErrs
	return len(fieldErrs) == 0
}

// Save validates the open form and persists it through the client. Field
// errors keep the form open and never reach the wire; API failures surface
// the server message as an error toast and also keep the form open.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.RLock()
	open := m.formOpen
	form := m.form
	editID := m.editID
	m.mu.RUnlock()
	if !open {
		return errNoOpenForm
	}
	var err error
	if editID == 0 {
		err = m.CreateProduct(ctx, form)
	} else {
		err = m.UpdateProduct(ctx, editID, form)
	}
	if err != nil {
		return err
	}
	m.CloseForm()
	return nil
}

// CreateProduct validates the form and creates the product. It backs the
// modal Save path and direct callers such as commands.
func (m *Manager) CreateProduct(ctx context.Context, form Form) error {
	draft, fieldErrs := ValidateForm(form)
	m.setFieldErrors(fieldErrs)
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	if m.client == nil {
		return errMissingClient
	}
	if err := m.client.CreateProduct(ctx, draft); err != nil {
		m.notifier.Notify(ctx, notify.Error(toastMessage(err)))
		return err
	}
	m.telemetry.Record(ctx, "catalog.product.create", map[string]any{"name": draft.Name})
	m.notifier.Notify(ctx, notify.Success("Product added successfully"))
	m.reload(ctx)
	return nil
}

// UpdateProduct validates the form and updates an existing product.
func (m *Manager) UpdateProduct(ctx context.Context, id int, form Form) error {
	draft, fieldErrs := ValidateForm(form)
	m.setFieldErrors(fieldErrs)
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	if m.client == nil {
		return errMissingClient
	}
	if err := m.client.UpdateProduct(ctx, id, draft); err != nil {
		m.notifier.Notify(ctx, notify.Error(toastMessage(err)))
		return err
	}
	m.telemetry.Record(ctx, "catalog.product.update", map[string]any{"id": id, "name": draft.Name})
	m.notifier.Notify(ctx, notify.Success("Product updated successfully"))
	m.reload(ctx)
	return nil
}

// DeleteProduct removes a product without the confirmation step. Interactive
// surfaces go through RequestDelete/ConfirmDelete instead.
func (m *Manager) DeleteProduct(ctx context.Context, id int) error {
	if m.client == nil {
		return errMissingClient
	}
	if err := m.client.DeleteProduct(ctx, id); err != nil {
		m.notifier.Notify(ctx, notify.Error(toastMessage(err)))
		return err
	}
	m.telemetry.Record(ctx, "catalog.product.delete", map[string]any{"id": id})
	m.notifier.Notify(ctx, notify.Success("Product deleted successfully"))
	m.reload(ctx)
	return nil
}

// RequestDelete arms the confirmation step for id. Asking for a different
// product re-arms to the new one.
func (m *Manager) RequestDelete(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingDelete = id
}

// PendingDelete returns the armed product id, if any.
func (m *Manager) PendingDelete() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingDelete, m.pendingDelete != 0
}

// CancelDelete disarms the confirmation.
func (m *Manager) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingDelete = 0
}

// ConfirmDelete deletes the armed product. Success and failure both disarm,
// so the next delete always takes two steps again.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	id := m.pendingDelete
	m.pendingDelete = 0
	m.mu.Unlock()
	if id == 0 {
		return errNoPendingDelete
	}
	return m.DeleteProduct(ctx, id)
}

func (m *Manager) setFieldErrors(fieldErrs []FieldError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fieldErrors = fieldErrs
}

// reload refreshes the list after a mutation; a failed refresh surfaces its
// own toast but does not undo the mutation.
func (m *Manager) reload(ctx context.Context) {
	if err := m.Load(ctx); err != nil {
		m.notifier.Notify(ctx, notify.Error(toastMessage(err)))
	}
}
