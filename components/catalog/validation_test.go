package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func errorFor(fieldErrs []FieldError, field string) string {
	for _, fe := range fieldErrs {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func TestValidateFormBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		form    Form
		field   string
		message string
	}{
		{"empty name", Form{Name: "", Unit: "kg", Price: "10", Stock: "5"}, "name", msgNameTooShort},
		{"one char name", Form{Name: "R", Unit: "kg", Price: "10", Stock: "5"}, "name", msgNameTooShort},
		{"two char name ok", Form{Name: "Ri", Unit: "kg", Price: "10", Stock: "5"}, "", ""},
		{"name charset", Form{Name: "Rice!", Unit: "kg", Price: "10", Stock: "5"}, "name", msgNameCharset},
		{"name with dash underscore", Form{Name: "Choco-Bar_2", Unit: "kg", Price: "10", Stock: "5"}, "", ""},
		{"empty unit", Form{Name: "Rice", Unit: "", Price: "10", Stock: "5"}, "unit", msgUnitInvalid},
		{"unknown unit", Form{Name: "Rice", Unit: "box", Price: "10", Stock: "5"}, "unit", msgUnitInvalid},
		{"zero price", Form{Name: "Rice", Unit: "kg", Price: "0", Stock: "5"}, "price", msgPricePositive},
		{"negative price", Form{Name: "Rice", Unit: "kg", Price: "-4", Stock: "5"}, "price", msgPricePositive},
		{"smallest price ok", Form{Name: "Rice", Unit: "kg", Price: "0.01", Stock: "5"}, "", ""},
		{"price not a number", Form{Name: "Rice", Unit: "kg", Price: "abc", Stock: "5"}, "price", msgPriceInvalid},
		{"price empty", Form{Name: "Rice", Unit: "kg", Price: "", Stock: "5"}, "price", msgPriceInvalid},
		{"zero stock ok", Form{Name: "Rice", Unit: "kg", Price: "10", Stock: "0"}, "", ""},
		{"negative stock", Form{Name: "Rice", Unit: "kg", Price: "10", Stock: "-1"}, "stock", msgStockNegative},
		{"fractional stock", Form{Name: "Rice", Unit: "kg", Price: "10", Stock: "2.5"}, "stock", msgStockInvalid},
		{"stock not a number", Form{Name: "Rice", Unit: "kg", Price: "10", Stock: "many"}, "stock", msgStockInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, fieldErrs := ValidateForm(tc.form)
			if tc.field == "" {
				if len(fieldErrs) != 0 {
					t.Fatalf("expected clean form, got %v", fieldErrs)
				}
				return
			}
			if got := errorFor(fieldErrs, tc.field); got != tc.message {
				t.Fatalf("field %s: got %q, want %q", tc.field, got, tc.message)
			}
		})
	}
}

func TestValidateFormChecksEveryField(t *testing.T) {
	_, fieldErrs := ValidateForm(Form{Name: "x", Unit: "crate", Price: "free", Stock: "-2"})
	if len(fieldErrs) != 4 {
		t.Fatalf("expected all four fields flagged, got %v", fieldErrs)
	}
	for _, field := range []string{"name", "unit", "price", "stock"} {
		if errorFor(fieldErrs, field) == "" {
			t.Errorf("expected a message for %s", field)
		}
	}
}

func TestValidateFormParsesDraft(t *testing.T) {
	draft, fieldErrs := ValidateForm(Form{Name: "  Wheat Flour  ", Unit: "kg", Price: " 40.50 ", Stock: " 80 "})
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected errors: %v", fieldErrs)
	}
	if draft.Name != "Wheat Flour" {
		t.Errorf("expected trimmed name, got %q", draft.Name)
	}
	if !draft.Price.Equal(decimal.RequireFromString("40.50")) {
		t.Errorf("unexpected price %s", draft.Price)
	}
	if draft.Stock != 80 {
		t.Errorf("unexpected stock %d", draft.Stock)
	}
}

func TestThresholdSeverityBands(t *testing.T) {
	bands := DefaultThresholds
	cases := map[int]StockSeverity{
		0:  SeverityDanger,
		5:  SeverityDanger,
		10: SeverityDanger,
		11: SeverityWarning,
		20: SeverityWarning,
		21: SeverityNormal,
		70: SeverityNormal,
	}
	for stock, want := range cases {
		if got := bands.Severity(stock); got != want {
			t.Errorf("Severity(%d) = %s, want %s", stock, got, want)
		}
	}
}

func TestThresholdsNormalize(t *testing.T) {
	if got := (Thresholds{}).Severity(15); got != SeverityWarning {
		t.Fatalf("zero thresholds should use defaults, got %s", got)
	}
	custom := Thresholds{Danger: 30, Warning: 5}
	if got := custom.Severity(20); got != SeverityDanger {
		t.Fatalf("inverted thresholds should clamp warning to danger, got %s", got)
	}
}
