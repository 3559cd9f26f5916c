// Package commands exposes catalog mutations as go-command handlers so
// hosts can dispatch them through a bus or wire them to CLI verbs.
package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/catalog"
)

// CreateProductInput carries the raw form fields for a new product.
type CreateProductInput struct {
	Form catalog.Form
}

type productCreator interface {
	CreateProduct(ctx context.Context, form catalog.Form) error
}

// CreateProductCommand validates and persists a new catalog product.
type CreateProductCommand struct {
	manager   productCreator
	telemetry Telemetry
}

// NewCreateProductCommand creates the command.
func NewCreateProductCommand(manager productCreator, telemetry Telemetry) *CreateProductCommand {
	return &CreateProductCommand{manager: manager, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateProductInput] = (*CreateProductCommand)(nil)

// Execute runs validation and persistence through the catalog manager.
func (c *CreateProductCommand) Execute(ctx context.Context, msg CreateProductInput) error {
	if c.manager == nil {
		return errors.New("create product command requires manager")
	}
	if err := c.manager.CreateProduct(ctx, msg.Form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "catalog.command.create", map[string]any{
		"name": msg.Form.Name,
	})
	return nil
}
