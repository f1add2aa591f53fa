package handlers

import (
	"strings"

	"storefront_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const userSearchLimit = 50

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// SearchUsers - GET /api/admin/users?q=
// Matches email or name; without q it lists the newest accounts.
func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := h.DB.WithContext(c.UserContext()).
		Select("id, email, name, role, created_at, updated_at")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	users := []models.User{}
	if err := query.Order("created_at desc").Limit(userSearchLimit).Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(users)
}
