// Package orderrepo persists order aggregates in two tables: orders and
// order_items, one row per item, kept in submission order by position.
package orderrepo

import (
	"time"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is a row of the orders table.
type OrderDTO struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Number              int64          `gorm:"not null;uniqueIndex"`
	Status              int            `gorm:"type:smallint;not null;index"`
	SpecialInstructions string         `gorm:"type:text;not null;default:''"`
	CustomerName        string         `gorm:"type:varchar(100);not null;default:''"`
	TableNumber         *int           `gorm:"type:int"`
	Priority            int            `gorm:"type:smallint;not null"`
	CreatedAt           time.Time      `gorm:"not null;index"`
	CompletedAt         *time.Time
	Version             int64          `gorm:"not null"`
	Items               []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is a row of the order_items table.
type OrderItemDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Position            int       `gorm:"not null"`
	MenuItemID          int64     `gorm:"not null"`
	Name                string    `gorm:"type:varchar(255);not null"`
	Quantity            int       `gorm:"not null"`
	Status              int       `gorm:"type:smallint;not null"`
	SpecialInstructions string    `gorm:"type:text;not null;default:''"`
	StartedAt           *time.Time
	FinishedAt          *time.Time
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	dto := OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		Number:              aggregate.Number().Value(),
		Status:              int(aggregate.Status()),
		SpecialInstructions: aggregate.SpecialInstructions(),
		CustomerName:        aggregate.CustomerName(),
		TableNumber:         aggregate.TableNumber(),
		Priority:            int(aggregate.Priority()),
		CreatedAt:           aggregate.CreatedAt(),
		CompletedAt:         aggregate.CompletedAt(),
		Version:             aggregate.Version(),
		Items:               make([]OrderItemDTO, len(items)),
	}
	for i, item := range items {
		dto.Items[i] = OrderItemDTO{
			ID:                  item.ID().Bytes(),
			OrderID:             dto.ID,
			Position:            i,
			MenuItemID:          item.MenuItemID(),
			Name:                item.Name(),
			Quantity:            item.Quantity(),
			Status:              int(item.Status()),
			SpecialInstructions: item.SpecialInstructions(),
			StartedAt:           item.StartedAt(),
			FinishedAt:          item.FinishedAt(),
		}
	}
	return dto
}

// toDomain expects Items to be loaded in position order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	number, err := kernel.NewOrderNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, len(dto.Items))
	for i, itemDTO := range dto.Items {
		itemID, idErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.RestoreItem(
			itemID,
			itemDTO.MenuItemID,
			itemDTO.Name,
			itemDTO.Quantity,
			order.ItemStatus(itemDTO.Status),
			itemDTO.SpecialInstructions,
			utc(itemDTO.StartedAt),
			utc(itemDTO.FinishedAt),
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items[i] = item
	}

	return order.RestoreOrder(
		id,
		number,
		items,
		order.Details{
			SpecialInstructions: dto.SpecialInstructions,
			CustomerName:        dto.CustomerName,
			TableNumber:         dto.TableNumber,
			Priority:            order.Priority(dto.Priority),
		},
		order.Status(dto.Status),
		dto.CreatedAt.UTC(),
		utc(dto.CompletedAt),
		dto.Version,
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
