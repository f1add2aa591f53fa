package handlers

import (
	"errors"

	"storefront_backend/internal/checkout"
	"storefront_backend/internal/metrics"
	"storefront_backend/middleware"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Checkout *checkout.Service
	Metrics  *metrics.ServerMetrics
}

func NewOrderHandler(svc *checkout.Service, m *metrics.ServerMetrics) *OrderHandler {
	return &OrderHandler{Checkout: svc, Metrics: m}
}

// GetOrders - GET /api/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.Checkout.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// GetOrder - GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	order, err := h.Checkout.GetForUser(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CreateOrder - POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	order, err := h.Checkout.PlaceOrder(c.UserContext(), user.ID)
	h.Metrics.Checkout(checkoutOutcome(err))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created",
		"order":   order,
	})
}

func checkoutOutcome(err error) string {
	var stockErr *checkout.InsufficientStockError
	switch {
	case err == nil:
		return metrics.OutcomePlaced
	case errors.Is(err, checkout.ErrEmptyCart):
		return metrics.OutcomeEmptyCart
	case errors.As(err, &stockErr):
		return metrics.OutcomeInsufficientStock
	}
	return metrics.OutcomeError
}
