package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/catalog"
)

// ImportManifestInput points at a manifest file to load into the catalog.
type ImportManifestInput struct {
	Path string
}

type manifestImporter interface {
	ImportManifest(ctx context.Context, doc *catalog.ManifestDocument) (catalog.ImportReport, error)
}

// ImportManifestCommand reads, validates and imports a catalog manifest.
type ImportManifestCommand struct {
	manager   manifestImporter
	telemetry Telemetry
}

// NewImportManifestCommand creates the command.
func NewImportManifestCommand(manager manifestImporter, telemetry Telemetry) *ImportManifestCommand {
	return &ImportManifestCommand{manager: manager, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ImportManifestInput] = (*ImportManifestCommand)(nil)

// Execute loads the manifest from disk and creates its products. The
// per-entry outcome is reported through the manager's notifier and
// telemetry.
func (c *ImportManifestCommand) Execute(ctx context.Context, msg ImportManifestInput) error {
	if c.manager == nil {
		return errors.New("import manifest command requires manager")
	}
	doc, err := catalog.ReadManifest(msg.Path)
	if err != nil {
		return err
	}
	report, err := c.manager.ImportManifest(ctx, doc)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "catalog.command.import", map[string]any{
		"path":    msg.Path,
		"created": len(report.Created),
		"skipped": len(report.Skipped),
	})
	return nil
}
