package handlers

import (
	"errors"
	"strings"

	"storefront_backend/internal/checkout"
	"storefront_backend/internal/ws"
	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentOrdersLimit = 5

type AdminHandler struct {
	DB       *gorm.DB
	Checkout *checkout.Service
	Hub      *ws.Hub
}

func NewAdminHandler(db *gorm.DB, svc *checkout.Service, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{DB: db, Checkout: svc, Hub: hub}
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Stock       *int             `json:"stock" validate:"required,gte=0"`
	CategoryID  *uint            `json:"categoryId" validate:"required,gt=0"`
	ImageURL    string           `json:"imageUrl" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *uint            `json:"categoryId" validate:"omitempty,gt=0"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// GetStats - GET /api/admin/stats
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext())

	var totalProducts, totalOrders, totalUsers int64
	if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalRevenue decimal.Decimal
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total_price), 0)").Row().Scan(&totalRevenue); err != nil {
		return err
	}

	recentOrders, err := h.Checkout.Recent(c.UserContext(), recentOrdersLimit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"stats": fiber.Map{
			"totalProducts": totalProducts,
			"totalOrders":   totalOrders,
			"totalUsers":    totalUsers,
			"totalRevenue":  totalRevenue,
		},
		"recentOrders": recentOrders,
	})
}

// GetProducts - GET /api/admin/products
func (h *AdminHandler) GetProducts(c *fiber.Ctx) error {
	products := []models.Product{}
	err := h.DB.WithContext(c.UserContext()).
		Preload("Category").
		Order("created_at desc").
		Order("id desc").
		Find(&products).Error
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// CreateProduct - POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	db := h.DB.WithContext(c.UserContext())

	if found, err := h.categoryExists(db, *req.CategoryID); err != nil {
		return err
	} else if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		CategoryID:  *req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if err := db.Create(&product).Error; err != nil {
		return err
	}
	if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"product": product,
	})
}

// UpdateProduct - PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	for _, field := range []*string{req.Name, req.Description, req.ImageURL} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	db := h.DB.WithContext(c.UserContext())

	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		if found, err := h.categoryExists(db, *req.CategoryID); err != nil {
			return err
		} else if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
	}
	if err := db.Preload("Category").First(&product, id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product updated",
		"product": product,
	})
}

// DeleteProduct - DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	db := h.DB.WithContext(c.UserContext())

	var product models.Product
	if err := db.Select("id").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	// Order items keep a reference to the product they were sold as.
	var ordered int64
	if err := db.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
		return err
	}
	if ordered > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Product has orders and cannot be deleted"})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetOrders - GET /api/admin/orders
func (h *AdminHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.Checkout.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// UpdateOrderStatus - PATCH /api/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}

	order, previous, err := h.Checkout.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	if previous != order.Status {
		h.Hub.NotifyOrderStatus(order.UserID, order.ID, string(order.Status))
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}

func (h *AdminHandler) categoryExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
