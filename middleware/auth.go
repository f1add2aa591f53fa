package middleware

import (
	"errors"
	"log"

	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const userLocalsKey = "user"

// Auth resolves bearer tokens into users. It has three gates:
// RequireAuth, RequireAdmin and OptionalAuth.
type Auth struct {
	DB  *gorm.DB
	JWT *utils.JWTManager
}

func NewAuth(db *gorm.DB, jwt *utils.JWTManager) *Auth {
	return &Auth{DB: db, JWT: jwt}
}

// CurrentUser returns the user attached by one of the gates, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

func (a *Auth) RequireAuth(c *fiber.Ctx) error {
	tokenString, err := a.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
	}

	userID, err := a.JWT.Parse(tokenString)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := a.lookup(c, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("Auth lookup failed for user %d: %v", userID, err)
		return err
	}

	c.Locals(userLocalsKey, user)
	return c.Next()
}

// RequireAdmin must run after RequireAuth.
func (a *Auth) RequireAdmin(c *fiber.Ctx) error {
	if !CurrentUser(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied. Administrator rights required"})
	}
	return c.Next()
}

// OptionalAuth attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func (a *Auth) OptionalAuth(c *fiber.Ctx) error {
	tokenString, err := a.token(c)
	if err != nil {
		return c.Next()
	}
	userID, err := a.JWT.Parse(tokenString)
	if err != nil {
		return c.Next()
	}
	if user, err := a.lookup(c, userID); err == nil {
		c.Locals(userLocalsKey, user)
	}
	return c.Next()
}

func (a *Auth) token(c *fiber.Ctx) (string, error) {
	tokenString, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err == nil {
		return tokenString, nil
	}
	// Browsers cannot set headers on a websocket handshake.
	if websocket.IsWebSocketUpgrade(c) && c.Query("token") != "" {
		return c.Query("token"), nil
	}
	return "", err
}

func (a *Auth) lookup(c *fiber.Ctx, userID uint) (*models.User, error) {
	var user models.User
	err := a.DB.WithContext(c.UserContext()).
		Select("id, email, name, role").
		First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
