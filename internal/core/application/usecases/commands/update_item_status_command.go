package commands

import (
	"errors"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/guard"
)

var ErrUpdateItemStatusCommandIsNotConstructed = errors.New(
	"UpdateItemStatusCommand must be created via NewUpdateItemStatusCommand constructor",
)

// UpdateItemStatusCommand moves one item of an order to a later status.
type UpdateItemStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	itemID    kernel.UUID
	newStatus order.ItemStatus

	guard guard.ConstructorGuard
}

func NewUpdateItemStatusCommand(orderID, itemID kernel.UUID, newStatus order.ItemStatus) (UpdateItemStatusCommand, error) {
	cmd := UpdateItemStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItemID(itemID),
		cmd.setNewStatus(newStatus),
	); err != nil {
		return UpdateItemStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateItemStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateItemStatusCommandIsNotConstructed)
}

func (c UpdateItemStatusCommand) OrderID() kernel.UUID { return c.orderID }

func (c UpdateItemStatusCommand) ItemID() kernel.UUID { return c.itemID }

func (c UpdateItemStatusCommand) NewStatus() order.ItemStatus { return c.newStatus }

func (c *UpdateItemStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateItemStatusCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

func (c *UpdateItemStatusCommand) setNewStatus(status order.ItemStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.newStatus = status
	return nil
}
