// Package sanitize normalizes user-supplied text before it reaches
// validation or markup.
package sanitize

import (
	"html"
	"regexp"
)

// ProductNamePattern is the full character set a product name may use.
var ProductNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-\_]+$`)

// CustomerNamePattern is the full character set a customer name may use.
var CustomerNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

var (
	productNameStrip  = regexp.MustCompile(`[^a-zA-Z0-9\s\-\_]`)
	customerNameStrip = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// ProductName strips every rune outside ProductNamePattern, mirroring the
// live-input filter applied while the user types.
func ProductName(s string) string {
	return productNameStrip.ReplaceAllString(s, "")
}

// CustomerName strips every rune outside CustomerNamePattern.
func CustomerName(s string) string {
	return customerNameStrip.ReplaceAllString(s, "")
}

// EscapeHTML escapes user-supplied text so it can be interpolated into
// markup built by callers.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
