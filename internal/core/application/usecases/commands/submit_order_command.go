package commands

import (
	"errors"
	"fmt"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"
	"kitchen/internal/pkg/errs"
	"kitchen/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand places a new order with one or more menu lines.
//
//	cmd, err := NewSubmitOrderCommand(kernel.NewUUID(), []services.Line{
//	    {MenuItemID: 1, Quantity: 2},
//	    {MenuItemID: 2, Quantity: 1},
//	}, OrderDetails{SpecialInstructions: "Extra spicy please"})
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	lines   []services.Line
	details order.Details

	guard guard.ConstructorGuard
}

// OrderDetails are the optional attributes of a submitted order as they
// arrive from the boundary. Priority is a wire name and may be empty.
type OrderDetails struct {
	SpecialInstructions string
	CustomerName        string
	TableNumber         *int
	Priority            string
}

func NewSubmitOrderCommand(orderID kernel.UUID, lines []services.Line, details OrderDetails) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLines(lines),
		cmd.setDetails(details),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c SubmitOrderCommand) Lines() []services.Line {
	lines := make([]services.Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c SubmitOrderCommand) Details() order.Details { return c.details }

func (c *SubmitOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *SubmitOrderCommand) setLines(lines []services.Line) error {
	if len(lines) == 0 {
		return order.ErrEmptyOrder
	}

	var errList []error
	for i, line := range lines {
		if line.MenuItemID <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].menuItemId", i), fmt.Errorf("%d is not greater than 0", line.MenuItemID),
			))
		}
		if line.Quantity < 1 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", line.Quantity),
			))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.lines = make([]services.Line, len(lines))
	copy(c.lines, lines)
	return nil
}

func (c *SubmitOrderCommand) setDetails(details OrderDetails) error {
	priority, err := order.ParsePriority(details.Priority)
	if err != nil {
		return err
	}

	c.details = order.Details{
		SpecialInstructions: details.SpecialInstructions,
		CustomerName:        details.CustomerName,
		TableNumber:         details.TableNumber,
		Priority:            priority,
	}
	return nil
}
