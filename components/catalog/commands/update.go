package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/catalog"
)

// UpdateProductInput carries the target product id and the raw form fields.
type UpdateProductInput struct {
	ID   int
	Form catalog.Form
}

type productUpdater interface {
	UpdateProduct(ctx context.Context, id int, form catalog.Form) error
}

// UpdateProductCommand validates and persists changes to a product.
type UpdateProductCommand struct {
	manager   productUpdater
	telemetry Telemetry
}

// NewUpdateProductCommand creates the command.
func NewUpdateProductCommand(manager productUpdater, telemetry Telemetry) *UpdateProductCommand {
	return &UpdateProductCommand{manager: manager, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateProductInput] = (*UpdateProductCommand)(nil)

// Execute runs validation and persistence through the catalog manager.
func (c *UpdateProductCommand) Execute(ctx context.Context, msg UpdateProductInput) error {
	if c.manager == nil {
		return errors.New("update product command requires manager")
	}
	if err := c.manager.UpdateProduct(ctx, msg.ID, msg.Form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "catalog.command.update", map[string]any{
		"id":   msg.ID,
		"name": msg.Form.Name,
	})
	return nil
}
