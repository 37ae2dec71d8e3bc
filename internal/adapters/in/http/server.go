// Package http exposes the kitchen lifecycle over the REST routes described
// in openapi.yaml.
package http

import (
	"net/http"

	"kitchen/internal/core/application/lifecycle"
	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CacheClearer drops every cached entry and reports how many were removed.
type CacheClearer interface {
	Clear() int
}

// Server implements ServerInterface on top of the lifecycle service.
type Server struct {
	service lifecycle.Service
	cache   CacheClearer
}

var _ ServerInterface = (*Server)(nil)

func NewServer(service lifecycle.Service, cache CacheClearer) *Server {
	return &Server{
		service: service,
		cache:   cache,
	}
}

// SubmitOrder handles POST /api/orders/.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var req NewOrder
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	lines := make([]services.Line, len(req.Items))
	for i, item := range req.Items {
		lines[i] = services.Line{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
	}

	snapshot, err := s.service.SubmitOrder(ctx.Request().Context(), lines, commands.OrderDetails{
		SpecialInstructions: req.SpecialInstructions,
		CustomerName:        req.CustomerName,
		TableNumber:         req.TableNumber,
		Priority:            req.Priority,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, toOrder(snapshot))
}

// GetKitchenDashboard handles GET /api/orders/kitchen_dashboard/.
func (s *Server) GetKitchenDashboard(ctx echo.Context) error {
	resp, err := s.service.ListActiveOrders(ctx.Request().Context())
	if err != nil {
		return err
	}

	dashboard := Dashboard{
		Count:        len(resp.Orders),
		StatusCounts: make(map[string]int, len(resp.StatusCounts)),
		Orders:       make([]Order, len(resp.Orders)),
	}
	for status, n := range resp.StatusCounts {
		dashboard.StatusCounts[status.String()] = n
	}
	for i, snapshot := range resp.Orders {
		dashboard.Orders[i] = toOrder(snapshot)
	}

	return ctx.JSON(http.StatusOK, dashboard)
}

// GetOrder handles GET /api/orders/{id}/.
func (s *Server) GetOrder(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}

	snapshot, err := s.service.GetOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrder(snapshot))
}

// UpdateItemStatus handles POST /api/orders/{id}/items/{item_id}/update_status/.
func (s *Server) UpdateItemStatus(ctx echo.Context, id openapi_types.UUID, itemID openapi_types.UUID) error {
	var req StatusUpdate
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	status, err := order.ParseItemStatus(req.NewStatus)
	if err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}
	orderItemID, err := kernel.UUIDFromBytes(itemID[:])
	if err != nil {
		return err
	}

	snapshot, err := s.service.UpdateItemStatus(ctx.Request().Context(), orderID, orderItemID, status)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrder(snapshot))
}

// CompleteOrder handles POST /api/orders/complete/{id}/.
func (s *Server) CompleteOrder(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}

	snapshot, err := s.service.CompleteOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrder(snapshot))
}

// ListMenu handles GET /api/menu/.
func (s *Server) ListMenu(ctx echo.Context, params ListMenuParams) error {
	onlyAvailable := params.Available != nil && *params.Available

	items, err := s.service.ListMenu(ctx.Request().Context(), onlyAvailable)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toMenu(items))
}

// ClearCache handles POST /api/cache/clear/.
func (s *Server) ClearCache(ctx echo.Context) error {
	cleared := s.cache.Clear()
	return ctx.JSON(http.StatusOK, map[string]int{"cleared": cleared})
}

func toOrder(s order.Snapshot) Order {
	items := make([]OrderItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = OrderItem{
			ID:                  item.ID.Bytes(),
			MenuItem:            item.MenuItemID,
			MenuItemName:        item.Name,
			Quantity:            item.Quantity,
			Status:              item.Status.String(),
			SpecialInstructions: item.SpecialInstructions,
			StartedAt:           item.StartedAt,
			FinishedAt:          item.FinishedAt,
		}
	}

	return Order{
		ID:                  s.ID.Bytes(),
		OrderNumber:         s.Number.String(),
		Status:              s.Status.String(),
		Items:               items,
		SpecialInstructions: s.SpecialInstructions,
		CustomerName:        s.CustomerName,
		TableNumber:         s.TableNumber,
		Priority:            s.Priority.String(),
		CreatedAt:           s.CreatedAt,
		CompletedAt:         s.CompletedAt,
	}
}

func toMenu(items []menu.Item) []MenuItem {
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = MenuItem{
			ID:         item.ID(),
			Name:       item.Name(),
			Category:   item.Category(),
			PriceCents: item.PriceCents(),
			Available:  item.IsAvailable(),
		}
	}
	return out
}
