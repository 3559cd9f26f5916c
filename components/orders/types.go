// Package orders implements the order composer: a keyed set of item rows
// backed by the live catalog, quantity clamping against available stock,
// decimal subtotals, and validated submission to the store API.
package orders

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/components/catalog"
)

// Line is one item row in the composer. Key is a stable identifier assigned
// when the row is created; it never changes while the row exists, so
// surfaces can track rows across edits. A line with ProductID zero has no
// product selected yet.
type Line struct {
	Key         string
	ProductID   int
	ProductName string
	Unit        string
	UnitPrice   decimal.Decimal
	Stock       int
	Quantity    int
}

// Subtotal is the line's price times quantity. Unselected lines contribute
// zero.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) eligible() bool {
	return l.ProductID != 0 && l.Quantity >= 1
}

// Item is one order entry as the store API expects it: product by name plus
// a quantity.
type Item struct {
	ProductName string
	Quantity    int
}

// Draft is a validated order ready for submission.
type Draft struct {
	CustomerName string
	Items        []Item
}

// Receipt is the server's acknowledgment of a created order.
type Receipt struct {
	OrderNumber string
	Total       decimal.Decimal
}

// FieldError scopes a validation message to a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every rule the order broke. The messages match
// what the store API would answer, so local and remote rejections read the
// same.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "orders: order failed validation"
}

// For returns the message recorded for a field, or "" when the field passed.
func (e *ValidationError) For(field string) string {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Client is the slice of the store API the composer consumes.
type Client interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
	SubmitOrder(ctx context.Context, draft Draft) (Receipt, error)
}

// Telemetry allows the composer to emit structured events.
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

type serverMessager interface {
	ServerMessage() string
}

func toastMessage(err error) string {
	var sm serverMessager
	if errors.As(err, &sm) {
		return sm.ServerMessage()
	}
	return err.Error()
}
