package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ErrDeleteNotConfirmed is returned when a delete arrives without the
// confirmation bit set. Interactive surfaces use the manager's two-step
// RequestDelete/ConfirmDelete instead.
var ErrDeleteNotConfirmed = errors.New("commands: product delete not confirmed")

// DeleteProductInput names the product to delete. Confirm must be true; the
// command refuses unconfirmed deletes.
type DeleteProductInput struct {
	ID      int
	Confirm bool
}

type productRemover interface {
	DeleteProduct(ctx context.Context, id int) error
}

// DeleteProductCommand removes a product from the catalog.
type DeleteProductCommand struct {
	manager   productRemover
	telemetry Telemetry
}

// NewDeleteProductCommand creates the command.
func NewDeleteProductCommand(manager productRemover, telemetry Telemetry) *DeleteProductCommand {
	return &DeleteProductCommand{manager: manager, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteProductInput] = (*DeleteProductCommand)(nil)

// Execute deletes the product once the input carries confirmation.
func (c *DeleteProductCommand) Execute(ctx context.Context, msg DeleteProductInput) error {
	if c.manager == nil {
		return errors.New("delete product command requires manager")
	}
	if !msg.Confirm {
		return ErrDeleteNotConfirmed
	}
	if err := c.manager.DeleteProduct(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "catalog.command.delete", map[string]any{
		"id": msg.ID,
	})
	return nil
}
