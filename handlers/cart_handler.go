package handlers

import (
	"storefront_backend/internal/cart"
	"storefront_backend/internal/session"
	"storefront_backend/middleware"
	"storefront_backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *cart.Service
}

func NewCartHandler(svc *cart.Service) *CartHandler {
	return &CartHandler{Cart: svc}
}

type AddToCartRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  *int `json:"quantity" validate:"omitempty,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// scope prefers the signed-in user and falls back to the session cookie.
func scope(c *fiber.Ctx) cart.Scope {
	if user := middleware.CurrentUser(c); user != nil {
		return cart.UserScope(user.ID)
	}
	return cart.SessionScope(session.ID(c))
}

// GetCart - GET /api/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	summary, err := h.Cart.List(c.UserContext(), scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// AddToCart - POST /api/cart
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.Cart.Add(c.UserContext(), scope(c), req.ProductID, quantity)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Product added to cart",
		"cartItem": item,
	})
}

// UpdateCartItem - PUT /api/cart/:id
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cart item ID"})
	}

	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	item, err := h.Cart.UpdateQuantity(c.UserContext(), scope(c), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// RemoveCartItem - DELETE /api/cart/:id
func (h *CartHandler) RemoveCartItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cart item ID"})
	}

	if err := h.Cart.Remove(c.UserContext(), scope(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product removed from cart"})
}

// ClearCart - DELETE /api/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), scope(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
