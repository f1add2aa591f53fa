package handlers

import (
	"errors"
	"strings"

	"storefront_backend/middleware"
	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB  *gorm.DB
	JWT *utils.JWTManager
}

func NewAuthHandler(db *gorm.DB, jwt *utils.JWTManager) *AuthHandler {
	return &AuthHandler{DB: db, JWT: jwt}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	db := h.DB.WithContext(c.UserContext())

	var existing models.User
	err := db.Select("id").Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User with this email already exists"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if req.Name != "" {
		user.Name = &req.Name
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	token, err := h.JWT.Generate(user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    publicUser(&user),
		"token":   token,
	})
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c)
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := utils.ValidateStruct(req); errs != nil {
		return validationFailed(c, errs)
	}

	var user models.User
	if err := h.DB.WithContext(c.UserContext()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return err
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := h.JWT.Generate(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    publicUser(&user),
		"token":   token,
	})
}

// Me - GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": publicUser(middleware.CurrentUser(c))})
}

// Logout - POST /api/auth/logout. Tokens are stateless; the client drops it.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func publicUser(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}
}
