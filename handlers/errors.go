package handlers

import (
	"errors"
	"fmt"
	"log"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/checkout"
	"storefront_backend/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to JSON responses. Anything it does not
// recognise is returned for the app's ErrorHandler to turn into a 500.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *checkout.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     fmt.Sprintf("Not enough stock for %q", stockErr.ProductName),
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	}

	status, msg := fiber.StatusInternalServerError, ""
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		status, msg = fiber.StatusBadRequest, "Cart is empty"
	case errors.Is(err, checkout.ErrOrderNotFound):
		status, msg = fiber.StatusNotFound, "Order not found"
	case errors.Is(err, checkout.ErrInvalidStatus):
		status, msg = fiber.StatusBadRequest, "Invalid order status"
	case errors.Is(err, cart.ErrProductNotFound):
		status, msg = fiber.StatusNotFound, "Product not found"
	case errors.Is(err, cart.ErrItemNotFound):
		status, msg = fiber.StatusNotFound, "Cart item not found"
	case errors.Is(err, cart.ErrInvalidQuantity):
		status, msg = fiber.StatusBadRequest, "Quantity must be greater than 0"
	case errors.Is(err, cart.ErrInsufficientStock):
		status, msg = fiber.StatusBadRequest, "Not enough stock"
	case errors.Is(err, cart.ErrNoScope):
		status, msg = fiber.StatusBadRequest, "Cart session is missing"
	default:
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return err
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func invalidInput(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
}

func validationFailed(c *fiber.Ctx, details []models.ErrorDetail) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrors{Errors: details})
}

// paramID reads a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
