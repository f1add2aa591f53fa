package handlers

import (
	"errors"
	"strings"

	"storefront_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
	popularLimit    = 8
)

// sortColumns maps the public sortBy values to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"stock":     "stock",
}

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// withCategory is the fetch contract for catalog reads: the product and
// its category's id and name.
func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, name")
	})
}

// GetProducts - GET /api/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := h.DB.WithContext(c.UserContext()).Model(&models.Product{})

	// Filter by Category
	if categoryID := c.QueryInt("categoryId", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	// Search by name or description, case-insensitive
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	// Share the filters between the count and the page query.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	column, ok := sortColumns[c.Query("sortBy", "createdAt")]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "desc"
	if strings.EqualFold(c.Query("order"), "asc") {
		direction = "asc"
	}

	products := []models.Product{}
	err := withCategory(query).
		Order(column + " " + direction).
		Order("id " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetProduct - GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := withCategory(h.DB.WithContext(c.UserContext())).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	return c.JSON(product)
}

// GetPopularProducts - GET /api/products/featured/popular
func (h *ProductHandler) GetPopularProducts(c *fiber.Ctx) error {
	products := []models.Product{}
	err := withCategory(h.DB.WithContext(c.UserContext())).
		Order("created_at desc").
		Order("id desc").
		Limit(popularLimit).
		Find(&products).Error
	if err != nil {
		return err
	}
	return c.JSON(products)
}
