package catalog

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/pkg/sanitize"
)

// Validation messages mirror the store API so inline errors and server
// rejections read the same.
const (
	msgNameTooShort  = "Product name must be at least 2 characters"
	msgNameCharset   = "Product name contains invalid characters"
	msgUnitInvalid   = "Invalid unit. Must be kg, litre, piece, grams, or ml"
	msgPriceInvalid  = "Invalid price format"
	msgPricePositive = "Price must be positive"
	msgStockInvalid  = "Invalid stock format"
	msgStockNegative = "Stock cannot be negative"
)

// ValidateForm checks every field in one pass and returns the parsed draft
// when the form is clean, so surfaces can annotate all fields before any
// network call happens.
func ValidateForm(form Form) (ProductDraft, []FieldError) {
	var fieldErrs []FieldError
	draft := ProductDraft{}

	name := strings.TrimSpace(form.Name)
	switch {
	case utf8.RuneCountInString(name) < 2:
		fieldErrs = append(fieldErrs, FieldError{Field: "name", Message: msgNameTooShort})
	case !sanitize.ProductNamePattern.MatchString(name):
		fieldErrs = append(fieldErrs, FieldError{Field: "name", Message: msgNameCharset})
	default:
		draft.Name = name
	}

	unit := strings.TrimSpace(form.Unit)
	if !ValidUnit(unit) {
		fieldErrs = append(fieldErrs, FieldError{Field: "unit", Message: msgUnitInvalid})
	} else {
		draft.Unit = unit
	}

	priceInput := strings.TrimSpace(form.Price)
	price, priceErr := decimal.NewFromString(priceInput)
	switch {
	case priceErr != nil:
		fieldErrs = append(fieldErrs, FieldError{Field: "price", Message: msgPriceInvalid})
	case !price.IsPositive():
		fieldErrs = append(fieldErrs, FieldError{Field: "price", Message: msgPricePositive})
	default:
		draft.Price = price
	}

	stockInput := strings.TrimSpace(form.Stock)
	stock, stockErr := strconv.Atoi(stockInput)
	switch {
	case stockErr != nil:
		fieldErrs = append(fieldErrs, FieldError{Field: "stock", Message: msgStockInvalid})
	case stock < 0:
		fieldErrs = append(fieldErrs, FieldError{Field: "stock", Message: msgStockNegative})
	default:
		draft.Stock = stock
	}

	if len(fieldErrs) > 0 {
		return ProductDraft{}, fieldErrs
	}
	return draft, nil
}

// manifestProductSchema validates one manifest entry. It encodes the same
// rules the form validator applies, in a shape external tooling can reuse.
const manifestProductSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "unit", "price", "stock"],
	"properties": {
		"code": {"type": "string", "pattern": "^[a-z0-9_]*$"},
		"name": {"type": "string", "minLength": 2, "pattern": "^[a-zA-Z0-9\\s\\-_]+$"},
		"unit": {"type": "string", "enum": ["kg", "litre", "piece", "grams", "ml"]},
		"price": {"type": "number", "exclusiveMinimum": 0},
		"stock": {"type": "integer", "minimum": 0}
	},
	"additionalProperties": false
}`

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

// manifestEntrySchema compiles the entry schema once and caches it.
func manifestEntrySchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		manifestSchema, manifestSchemaErr = jsonschema.CompileString("product.manifest.json", manifestProductSchema)
	})
	return manifestSchema, manifestSchemaErr
}
