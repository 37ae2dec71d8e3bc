package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

//go:embed openapi.yaml
var openapiSpec []byte

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger parses the embedded OpenAPI document once and returns it.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swagger, swaggerErr = loader.LoadFromData(openapiSpec)
		if swaggerErr != nil {
			swaggerErr = fmt.Errorf("loading openapi document: %w", swaggerErr)
		}
	})
	return swagger, swaggerErr
}

// Error is the body of every non-2xx response.
type Error struct {
	Code          int      `json:"code"`
	Message       string   `json:"message"`
	BlockingItems []string `json:"blocking_items,omitempty"`
}

type NewOrderItem struct {
	MenuItemID          int64  `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type NewOrder struct {
	Items               []NewOrderItem `json:"items"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	CustomerName        string         `json:"customer_name,omitempty"`
	TableNumber         *int           `json:"table_number,omitempty"`
	Priority            string         `json:"priority,omitempty"`
}

type StatusUpdate struct {
	NewStatus string `json:"new_status"`
}

type OrderItem struct {
	ID                  openapi_types.UUID `json:"id"`
	MenuItem            int64              `json:"menu_item"`
	MenuItemName        string             `json:"menu_item_name"`
	Quantity            int                `json:"quantity"`
	Status              string             `json:"status"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
	StartedAt           *time.Time         `json:"started_at"`
	FinishedAt          *time.Time         `json:"finished_at"`
}

type Order struct {
	ID                  openapi_types.UUID `json:"id"`
	OrderNumber         string             `json:"order_number"`
	Status              string             `json:"status"`
	Items               []OrderItem        `json:"items"`
	SpecialInstructions string             `json:"special_instructions"`
	CustomerName        string             `json:"customer_name"`
	TableNumber         *int               `json:"table_number"`
	Priority            string             `json:"priority"`
	CreatedAt           time.Time          `json:"created_at"`
	CompletedAt         *time.Time         `json:"completed_at"`
}

type Dashboard struct {
	Count        int            `json:"count"`
	StatusCounts map[string]int `json:"status_counts"`
	Orders       []Order        `json:"orders"`
}

type MenuItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Available  bool   `json:"available"`
}

type ListMenuParams struct {
	Available *bool
}

// ServerInterface is implemented by Server; each method serves one
// operation of openapi.yaml.
type ServerInterface interface {
	SubmitOrder(ctx echo.Context) error
	GetKitchenDashboard(ctx echo.Context) error
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	UpdateItemStatus(ctx echo.Context, id openapi_types.UUID, itemID openapi_types.UUID) error
	CompleteOrder(ctx echo.Context, id openapi_types.UUID) error
	ListMenu(ctx echo.Context, params ListMenuParams) error
	ClearCache(ctx echo.Context) error
}

// ServerInterfaceWrapper binds path and query parameters before calling
// the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SubmitOrder(ctx echo.Context) error {
	return w.Handler.SubmitOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetKitchenDashboard(ctx echo.Context) error {
	return w.Handler.GetKitchenDashboard(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateItemStatus(ctx echo.Context) error {
	id, err := bindUUID(ctx, "id")
	if err != nil {
		return err
	}
	itemID, err := bindUUID(ctx, "item_id")
	if err != nil {
		return err
	}
	return w.Handler.UpdateItemStatus(ctx, id, itemID)
}

func (w *ServerInterfaceWrapper) CompleteOrder(ctx echo.Context) error {
	id, err := bindUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.CompleteOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ListMenu(ctx echo.Context) error {
	var params ListMenuParams
	err := runtime.BindQueryParameter("form", true, false, "available", ctx.QueryParams(), &params.Available)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter available: %s", err))
	}
	return w.Handler.ListMenu(ctx, params)
}

func (w *ServerInterfaceWrapper) ClearCache(ctx echo.Context) error {
	return w.Handler.ClearCache(ctx)
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation of openapi.yaml on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST("/api/orders/", w.SubmitOrder)
	router.GET("/api/orders/kitchen_dashboard/", w.GetKitchenDashboard)
	router.POST("/api/orders/complete/:id/", w.CompleteOrder)
	router.GET("/api/orders/:id/", w.GetOrder)
	router.POST("/api/orders/:id/items/:item_id/update_status/", w.UpdateItemStatus)
	router.GET("/api/menu/", w.ListMenu)
	router.POST("/api/cache/clear/", w.ClearCache)
}
