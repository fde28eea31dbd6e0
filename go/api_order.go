package ecommerceserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
)

// HeaderIdempotencyKey lets clients retry POST /orders without placing twice.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and the placement workflow.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Get /orders
// Admins see every order, everyone else only their own.
func (api *OrderAPI) ListOrders(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := api.service.FindAll(c.Request.Context(), principal, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: ordermapper.FromDomainOrders(orders)})
}

// Get /orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: ordermapper.FromDomainOrder(order)})
}

// Post /orders
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var payload PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	userID, err := uuid.Parse(strings.TrimSpace(payload.User))
	if err != nil {
		respondBadRequest(c, invalidParam("user", payload.User))
		return
	}
	lines := make([]orderdomain.Line, 0, len(payload.Products))
	for _, p := range payload.Products {
		productID, err := uuid.Parse(strings.TrimSpace(p.ID))
		if err != nil {
			respondBadRequest(c, invalidParam("products.id", p.ID))
			return
		}
		lines = append(lines, orderdomain.Line{ProductID: productID, Quantity: p.Quantity})
	}
	cmd := orderports.PlaceOrderCommand{
		UserID:         userID,
		Lines:          lines,
		Caller:         principal,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	}
	order, err := api.placeOrder(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Envelope{Message: "Order created successfully", Data: ordermapper.FromDomainOrder(order)})
}

func (api *OrderAPI) placeOrder(ctx context.Context, cmd orderports.PlaceOrderCommand) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, cmd)
	}
	return api.service.PlaceOrder(ctx, cmd)
}

// Delete /orders/:id
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.Delete(c.Request.Context(), id, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Order deleted successfully", ID: deleted.String()})
}
