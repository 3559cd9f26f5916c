// Package commands exposes order submission as a go-command handler.
package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-grocery/components/orders"
)

// SubmitOrderInput carries a complete order assembled outside the form.
type SubmitOrderInput struct {
	CustomerName string
	Items        []orders.Item
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, customer string, items []orders.Item) (orders.Receipt, error)
}

// SubmitOrderCommand validates and submits an order through the composer.
type SubmitOrderCommand struct {
	composer  orderPlacer
	telemetry Telemetry
}

// NewSubmitOrderCommand creates the command.
func NewSubmitOrderCommand(composer orderPlacer, telemetry Telemetry) *SubmitOrderCommand {
	return &SubmitOrderCommand{composer: composer, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitOrderInput] = (*SubmitOrderCommand)(nil)

// Execute places the order. Stock and product existence are checked against
// the live catalog before anything reaches the store API.
func (c *SubmitOrderCommand) Execute(ctx context.Context, msg SubmitOrderInput) error {
	if c.composer == nil {
		return errors.New("submit order command requires composer")
	}
	receipt, err := c.composer.PlaceOrder(ctx, msg.CustomerName, msg.Items)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "orders.command.submit", map[string]any{
		"order_number": receipt.OrderNumber,
		"total":        receipt.Total.StringFixed(2),
	})
	return nil
}
