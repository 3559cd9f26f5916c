package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ettle/strcase"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-grocery/pkg/notify"
)

// ManifestVersion is the manifest schema revision this package understands.
const ManifestVersion = 1

// ManifestDocument is a portable catalog snapshot used to seed or migrate
// stores.
type ManifestDocument struct {
	Version  int               `yaml:"version" json:"version"`
	Products []ManifestProduct `yaml:"products" json:"products"`
	Source   string            `yaml:"-" json:"-"`
}

// ManifestProduct describes one product entry in a manifest. Code is a
// stable machine slug; it is derived from the name when omitted.
type ManifestProduct struct {
	Code  string  `yaml:"code,omitempty" json:"code,omitempty"`
	Name  string  `yaml:"name" json:"name"`
	Unit  string  `yaml:"unit" json:"unit"`
	Price float64 `yaml:"price" json:"price"`
	Stock int     `yaml:"stock" json:"stock"`
}

func (p ManifestProduct) draft() ProductDraft {
	return ProductDraft{
		Name:  strings.TrimSpace(p.Name),
		Unit:  p.Unit,
		Price: decimal.NewFromFloat(p.Price),
		Stock: p.Stock,
	}
}

func (p ManifestProduct) schemaValue() map[string]any {
	return map[string]any{
		"code":  p.Code,
		"name":  p.Name,
		"unit":  p.Unit,
		"price": p.Price,
		"stock": float64(p.Stock),
	}
}

// ReadManifest loads and validates a manifest file.
func ReadManifest(path string) (*ManifestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest %s: %w", path, err)
	}
	doc, err := DecodeManifest(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog: manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest decodes a manifest from YAML (JSON manifests parse too) and
// validates it. Unknown fields are rejected.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	doc := &ManifestDocument{}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("catalog: decode manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// applyDefaults fills the version and derives missing entry codes.
func (d *ManifestDocument) applyDefaults() {
	if d.Version == 0 {
		d.Version = ManifestVersion
	}
	for i := range d.Products {
		if d.Products[i].Code == "" {
			d.Products[i].Code = strcase.ToSnake(strings.TrimSpace(d.Products[i].Name))
		}
	}
}

// Validate checks structural rules and every entry against the product
// schema. Name uniqueness is case-insensitive to match the store's
// collation.
func (d *ManifestDocument) Validate() error {
	if d.Version != ManifestVersion {
		return fmt.Errorf("catalog: unsupported manifest version %d (want %d)", d.Version, ManifestVersion)
	}
	if len(d.Products) == 0 {
		return errors.New("catalog: manifest has no products")
	}
	schema, err := manifestEntrySchema()
	if err != nil {
		return err
	}
	codes := map[string]struct{}{}
	names := map[string]struct{}{}
	for i, p := range d.Products {
		if _, dup := codes[p.Code]; dup {
			return fmt.Errorf("catalog: duplicate product code %q", p.Code)
		}
		codes[p.Code] = struct{}{}
		nameKey := strings.ToLower(strings.TrimSpace(p.Name))
		if _, dup := names[nameKey]; dup {
			return fmt.Errorf("catalog: duplicate product name %q", p.Name)
		}
		names[nameKey] = struct{}{}
		if err := schema.Validate(p.schemaValue()); err != nil {
			return fmt.Errorf("catalog: manifest product %d (%s): %w", i, p.Name, err)
		}
	}
	return nil
}

// WriteManifest writes the manifest as YAML, creating parent directories.
func WriteManifest(path string, doc *ManifestDocument) error {
	if doc == nil {
		return errors.New("catalog: nil manifest")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("catalog: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := *doc
	tmp.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("catalog: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmp); err != nil {
		return fmt.Errorf("catalog: write manifest: %w", err)
	}
	return nil
}

// ImportReport summarizes a manifest import.
type ImportReport struct {
	Created []string
	Skipped []SkippedProduct
}

// SkippedProduct records why a manifest entry was not created.
type SkippedProduct struct {
	Name   string
	Reason string
}

// ImportManifest creates every manifest product through the client. Entries
// the server rejects (duplicates, constraint errors) are recorded as
// skipped; transport failures abort the import.
func (m *Manager) ImportManifest(ctx context.Context, doc *ManifestDocument) (ImportReport, error) {
	report := ImportReport{}
	if doc == nil {
		return report, errors.New("catalog: nil manifest")
	}
	if m.client == nil {
		return report, errMissingClient
	}
	for _, entry := range doc.Products {
		if err := m.client.CreateProduct(ctx, entry.draft()); err != nil {
			var sm serverMessager
			if errors.As(err, &sm) {
				report.Skipped = append(report.Skipped, SkippedProduct{Name: entry.Name, Reason: sm.ServerMessage()})
				continue
			}
			return report, err
		}
		report.Created = append(report.Created, entry.Name)
	}
	m.telemetry.Record(ctx, "catalog.import", map[string]any{
		"source":  doc.Source,
		"created": len(report.Created),
		"skipped": len(report.Skipped),
	})
	switch {
	case len(report.Created) > 0 && len(report.Skipped) > 0:
		m.notifier.Notify(ctx, notify.Success(fmt.Sprintf("Imported %d products, skipped %d", len(report.Created), len(report.Skipped))))
	case len(report.Created) > 0:
		m.notifier.Notify(ctx, notify.Success(fmt.Sprintf("Imported %d products", len(report.Created))))
	default:
		m.notifier.Notify(ctx, notify.Info(fmt.Sprintf("No products imported, skipped %d", len(report.Skipped))))
	}
	m.reload(ctx)
	return report, nil
}

// ExportManifest snapshots the loaded catalog as a manifest document with
// codes derived from the product names.
func (m *Manager) ExportManifest() *ManifestDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc := &ManifestDocument{
		Version:  ManifestVersion,
		Products: make([]ManifestProduct, len(m.products)),
	}
	for i, p := range m.products {
		doc.Products[i] = ManifestProduct{
			Code:  strcase.ToSnake(p.Name),
			Name:  p.Name,
			Unit:  p.Unit,
			Price: p.Price.InexactFloat64(),
			Stock: p.Stock,
		}
	}
	return doc
}
