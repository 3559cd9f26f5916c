package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/pkg/notify"
)

type fakeClient struct {
	fetch  func(ctx context.Context) ([]Product, error)
	create func(ctx context.Context, draft ProductDraft) error
	update func(ctx context.Context, id int, draft ProductDraft) error
	remove func(ctx context.Context, id int) error

	fetchCalls  int
	createCalls int
	updateCalls int
	removeCalls int
}

func (f *fakeClient) FetchProducts(ctx context.Context) ([]Product, error) {
	f.fetchCalls++
	if f.fetch != nil {
		return f.fetch(ctx)
	}
	return nil, nil
}

func (f *fakeClient) CreateProduct(ctx context.Context, draft ProductDraft) error {
	f.createCalls++
	if f.create != nil {
		return f.create(ctx, draft)
	}
	return nil
}

func (f *fakeClient) UpdateProduct(ctx context.Context, id int, draft ProductDraft) error {
	f.updateCalls++
	if f.update != nil {
		return f.update(ctx, id, draft)
	}
	return nil
}

func (f *fakeClient) DeleteProduct(ctx context.Context, id int) error {
	f.removeCalls++
	if f.remove != nil {
		return f.remove(ctx, id)
	}
	return nil
}

type captureNotifier struct {
	toasts []notify.Toast
}

func (n *captureNotifier) Notify(_ context.Context, toast notify.Toast) {
	n.toasts = append(n.toasts, toast)
}

func (n *captureNotifier) last() (notify.Toast, bool) {
	if len(n.toasts) == 0 {
		return notify.Toast{}, false
	}
	return n.toasts[len(n.toasts)-1], true
}

type recorderTelemetry struct {
	events []string
}

func (r *recorderTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.events = append(r.events, event)
}

type serverErr struct {
	status  int
	message string
}

func (e *serverErr) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.status, e.message)
}

func (e *serverErr) ServerMessage() string {
	return e.message
}

func sampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Rice", Unit: "kg", Price: decimal.NewFromInt(50), Stock: 5},
		{ID: 2, Name: "Milk", Unit: "litre", Price: decimal.NewFromInt(55), Stock: 15},
		{ID: 3, Name: "Bread", Unit: "piece", Price: decimal.NewFromInt(25), Stock: 50},
	}
}

func newTestManager(client *fakeClient) (*Manager, *captureNotifier, *recorderTelemetry) {
	notifier := &captureNotifier{}
	telemetry := &recorderTelemetry{}
	manager := NewManager(Options{Client: client, Notifier: notifier, Telemetry: telemetry})
	return manager, notifier, telemetry
}

func TestLoadPopulatesRows(t *testing.T) {
	client := &fakeClient{fetch: func(context.Context) ([]Product, error) {
		return sampleProducts(), nil
	}}
	manager, _, telemetry := newTestManager(client)

	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	rows := manager.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Severity != SeverityDanger || rows[1].Severity != SeverityWarning || rows[2].Severity != SeverityNormal {
		t.Fatalf("unexpected severities: %s %s %s", rows[0].Severity, rows[1].Severity, rows[2].Severity)
	}
	if rows[0].PriceLabel != "₹50.00" {
		t.Fatalf("unexpected price label %q", rows[0].PriceLabel)
	}
	if len(telemetry.events) == 0 || telemetry.events[0] != "catalog.load" {
		t.Fatalf("expected load telemetry, got %v", telemetry.events)
	}
}

func TestRowsEscapeNames(t *testing.T) {
	client := &fakeClient{fetch: func(context.Context) ([]Product, error) {
		return []Product{{ID: 1, Name: `Rice <"premium"> & more`, Unit: "kg", Price: decimal.NewFromInt(50), Stock: 30}}, nil
	}}
	manager, _, _ := newTestManager(client)
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := manager.Rows()[0].Name
	want := "Rice &lt;&#34;premium&#34;&gt; &amp; more"
	if got != want {
		t.Fatalf("row name = %q, want %q", got, want)
	}
}

func TestSaveValidatesBeforeNetwork(t *testing.T) {
	client := &fakeClient{}
	manager, notifier, _ := newTestManager(client)

	manager.OpenCreate()
	manager.SetName("R")
	manager.SetUnit("kg")
	manager.SetPrice("10")
	manager.SetStock("5")

	err := manager.Save(context.Background())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.For("name") != msgNameTooShort {
		t.Fatalf("unexpected name message %q", ve.For("name"))
	}
	if client.createCalls != 0 {
		t.Fatal("validation failure must not reach the client")
	}
	if open, _ := manager.FormOpen(); !open {
		t.Fatal("form should stay open on validation failure")
	}
	if len(notifier.toasts) != 0 {
		t.Fatalf("field errors render inline, not as toasts: %v", notifier.toasts)
	}
	if got := len(manager.FieldErrors()); got != 1 {
		t.Fatalf("expected 1 field error recorded, got %d", got)
	}
}

func TestSaveCreateSuccess(t *testing.T) {
	var created ProductDraft
	client := &fakeClient{create: func(_ context.Context, draft ProductDraft) error {
		created = draft
		return nil
	}}
	manager, notifier, telemetry := newTestManager(client)

	manager.OpenCreate()
	manager.SetName("Paneer")
	manager.SetUnit("grams")
	manager.SetPrice("85.50")
	manager.SetStock("12")

	if err := manager.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if created.Name != "Paneer" || !created.Price.Equal(decimal.RequireFromString("85.50")) {
		t.Fatalf("unexpected draft %+v", created)
	}
	if client.fetchCalls != 1 {
		t.Fatalf("expected a refresh after create, got %d fetches", client.fetchCalls)
	}
	toast, ok := notifier.last()
	if !ok || toast.Level != notify.LevelSuccess || toast.Message != "Product added successfully" {
		t.Fatalf("unexpected toast %#v", toast)
	}
	if open, _ := manager.FormOpen(); open {
		t.Fatal("form should close after a successful save")
	}
	found := false
	for _, event := range telemetry.events {
		if event == "catalog.product.create" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected create telemetry, got %v", telemetry.events)
	}
}

func TestSaveUpdateFlow(t *testing.T) {
	var updatedID int
	var updated ProductDraft
	client := &fakeClient{
		fetch: func(context.Context) ([]Product, error) { return sampleProducts(), nil },
		update: func(_ context.Context, id int, draft ProductDraft) error {
			updatedID = id
			updated = draft
			return nil
		},
	}
	manager, notifier, _ := newTestManager(client)
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := manager.OpenEdit(2); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	form := manager.FormValues()
	if form.Name != "Milk" || form.Price != "55.00" || form.Stock != "15" {
		t.Fatalf("unexpected prefill %+v", form)
	}

	manager.SetPrice("60.50")
	if err := manager.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if updatedID != 2 || !updated.Price.Equal(decimal.RequireFromString("60.50")) {
		t.Fatalf("unexpected update call id=%d draft=%+v", updatedID, updated)
	}
	toast, _ := notifier.last()
	if toast.Message != "Product updated successfully" {
		t.Fatalf("unexpected toast %#v", toast)
	}
}

func TestSaveServerErrorKeepsFormOpen(t *testing.T) {
	client := &fakeClient{create: func(context.Context, ProductDraft) error {
		return &serverErr{status: 400, message: "Product with this name already exists"}
	}}
	manager, notifier, _ := newTestManager(client)

	manager.OpenCreate()
	manager.SetName("Rice")
	manager.SetUnit("kg")
	manager.SetPrice("50")
	manager.SetStock("10")

	if err := manager.Save(context.Background()); err == nil {
		t.Fatal("expected an error from the client")
	}
	toast, ok := notifier.last()
	if !ok || toast.Level != notify.LevelError || toast.Message != "Product with this name already exists" {
		t.Fatalf("expected the server message verbatim, got %#v", toast)
	}
	if open, _ := manager.FormOpen(); !open {
		t.Fatal("form should stay open after a server rejection")
	}
	if client.fetchCalls != 0 {
		t.Fatal("no refresh should happen after a failed save")
	}
}

func TestOpenEditUnknownProduct(t *testing.T) {
	manager, _, _ := newTestManager(&fakeClient{})
	if err := manager.OpenEdit(99); err == nil {
		t.Fatal("expected an error for an unknown product id")
	}
}

func TestSetNameSanitizesInput(t *testing.T) {
	manager, _, _ := newTestManager(&fakeClient{})
	manager.OpenCreate()
	manager.SetName("Rice<script>!")
	if got := manager.FormValues().Name; got != "Ricescript" {
		t.Fatalf("expected sanitized name, got %q", got)
	}
}

func TestTwoStepDelete(t *testing.T) {
	var removedID int
	client := &fakeClient{remove: func(_ context.Context, id int) error {
		removedID = id
		return nil
	}}
	manager, notifier, _ := newTestManager(client)

	if err := manager.ConfirmDelete(context.Background()); !errors.Is(err, errNoPendingDelete) {
		t.Fatalf("confirm without request should fail, got %v", err)
	}
	if client.removeCalls != 0 {
		t.Fatal("nothing should be deleted without an armed confirmation")
	}

	manager.RequestDelete(2)
	if id, ok := manager.PendingDelete(); !ok || id != 2 {
		t.Fatalf("expected pending delete for 2, got %d %v", id, ok)
	}
	if err := manager.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if removedID != 2 {
		t.Fatalf("expected product 2 deleted, got %d", removedID)
	}
	if _, ok := manager.PendingDelete(); ok {
		t.Fatal("confirmation should disarm after delete")
	}
	toast, _ := notifier.last()
	if toast.Message != "Product deleted successfully" {
		t.Fatalf("unexpected toast %#v", toast)
	}
}

func TestRequestDeleteRearmsToLatest(t *testing.T) {
	var removedID int
	client := &fakeClient{remove: func(_ context.Context, id int) error {
		removedID = id
		return nil
	}}
	manager, _, _ := newTestManager(client)

	manager.RequestDelete(1)
	manager.RequestDelete(3)
	if err := manager.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if removedID != 3 {
		t.Fatalf("expected the most recent request to win, deleted %d", removedID)
	}
}

func TestCancelDeleteDisarms(t *testing.T) {
	client := &fakeClient{}
	manager, _, _ := newTestManager(client)
	manager.RequestDelete(1)
	manager.CancelDelete()
	if err := manager.ConfirmDelete(context.Background()); !errors.Is(err, errNoPendingDelete) {
		t.Fatalf("expected disarmed confirmation, got %v", err)
	}
	if client.removeCalls != 0 {
		t.Fatal("cancelled delete must not reach the client")
	}
}

func TestDeleteServerErrorDisarmsAndToasts(t *testing.T) {
	client := &fakeClient{remove: func(context.Context, int) error {
		return &serverErr{status: 400, message: "Cannot delete product that has been ordered"}
	}}
	manager, notifier, _ := newTestManager(client)

	manager.RequestDelete(1)
	if err := manager.ConfirmDelete(context.Background()); err == nil {
		t.Fatal("expected the delete to fail")
	}
	toast, _ := notifier.last()
	if toast.Level != notify.LevelError || toast.Message != "Cannot delete product that has been ordered" {
		t.Fatalf("expected the server message verbatim, got %#v", toast)
	}
	if _, ok := manager.PendingDelete(); ok {
		t.Fatal("failed delete should still disarm the confirmation")
	}
}

func TestValidateRecordsFieldErrors(t *testing.T) {
	manager, _, _ := newTestManager(&fakeClient{})
	manager.OpenCreate()
	manager.SetName("Rice")
	manager.SetUnit("kg")
	manager.SetPrice("0")
	manager.SetStock("3")
	if manager.Validate() {
		t.Fatal("expected validation to fail on zero price")
	}
	fieldErrs := manager.FieldErrors()
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "price" || fieldErrs[0].Message != msgPricePositive {
		t.Fatalf("unexpected field errors %v", fieldErrs)
	}
}
