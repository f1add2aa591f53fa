package handlers

import (
	"errors"

	"storefront_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const categoryProductsLimit = 20

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// GetCategories - GET /api/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext())

	categories := []models.Category{}
	if err := db.Order("name asc").Find(&categories).Error; err != nil {
		return err
	}

	var counts []struct {
		CategoryID uint
		Count      int64
	}
	err := db.Model(&models.Product{}).
		Select("category_id, COUNT(*) AS count").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return err
	}

	byCategory := make(map[uint]int64, len(counts))
	for _, row := range counts {
		byCategory[row.CategoryID] = row.Count
	}
	for i := range categories {
		categories[i].ProductCount = byCategory[categories[i].ID]
	}

	return c.JSON(categories)
}

// GetCategory - GET /api/categories/:id
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	db := h.DB.WithContext(c.UserContext())

	var category models.Category
	err := db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc").Order("id desc").Limit(categoryProductsLimit)
	}).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}
		return err
	}

	if err := db.Model(&models.Product{}).Where("category_id = ?", id).Count(&category.ProductCount).Error; err != nil {
		return err
	}
	if category.Products == nil {
		category.Products = []models.Product{}
	}

	return c.JSON(category)
}
