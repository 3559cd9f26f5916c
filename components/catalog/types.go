// Package catalog implements the product catalog manager: list state, the
// add/edit product form with field-level validation, two-step delete
// confirmation, and the YAML manifest import/export pipeline.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry as served by the store API.
type Product struct {
	ID        int
	Name      string
	Unit      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductDraft is a validated mutation payload.
type ProductDraft struct {
	Name  string
	Unit  string
	Price decimal.Decimal
	Stock int
}

// Form holds the raw product form fields as entered by the user.
type Form struct {
	Name  string
	Unit  string
	Price string
	Stock string
}

// FieldError scopes a validation message to a single form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every failing form field at once.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "catalog: product form failed validation"
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

// Row is the render-ready projection of a product for table surfaces. Name
// is HTML-escaped and the price is formatted; callers style Severity.
type Row struct {
	ID         int
	Name       string
	Unit       string
	PriceLabel string
	Stock      int
	Severity   StockSeverity
}

// Client is the slice of the store API the catalog manager consumes.
type Client interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) error
	UpdateProduct(ctx context.Context, id int, draft ProductDraft) error
	DeleteProduct(ctx context.Context, id int) error
}

// Telemetry allows the manager to emit structured events.
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

var units = []string{"kg", "litre", "piece", "grams", "ml"}

// Units returns the fixed unit vocabulary in display order.
func Units() []string {
	return append([]string(nil), units...)
}

// ValidUnit reports whether u belongs to the unit vocabulary.
func ValidUnit(u string) bool {
	for _, known := range units {
		if u == known {
			return true
		}
	}
	return false
}

// serverMessager exposes the server-provided error text carried by store
// API errors without coupling this package to the client implementation.
type serverMessager interface {
	ServerMessage() string
}

// toastMessage picks the text shown to the user for err: the server message
// verbatim when present, the error string otherwise.
func toastMessage(err error) string {
	var sm serverMessager
	if errors.As(err, &sm) {
		return sm.ServerMessage()
	}
	return err.Error()
}
