package catalog

// StockSeverity labels how urgently a product needs restocking.
type StockSeverity string

const (
	SeverityDanger  StockSeverity = "danger"
	SeverityWarning StockSeverity = "warning"
	SeverityNormal  StockSeverity = "normal"
)

// Thresholds sets the stock bands used for severity styling: danger at or
// below Danger, warning above that up to Warning, normal beyond.
type Thresholds struct {
	Danger  int
	Warning int
}

// DefaultThresholds matches the store's low-stock accounting.
var DefaultThresholds = Thresholds{Danger: 10, Warning: 20}

// Normalize keeps the bands ordered; a zero value means the defaults.
func (t Thresholds) Normalize() Thresholds {
	if t.Danger <= 0 && t.Warning <= 0 {
		return DefaultThresholds
	}
	if t.Warning < t.Danger {
		t.Warning = t.Danger
	}
	return t
}

// Severity classifies a stock level.
func (t Thresholds) Severity(stock int) StockSeverity {
	n := t.Normalize()
	switch {
	case stock <= n.Danger:
		return SeverityDanger
	case stock <= n.Warning:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
