// Package session issues the anonymous session tokens that scope guest
// carts. Tokens live in the cart_sessions table with a fixed expiry, so
// any instance of the API can resolve them.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront_backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const localsKey = "session_id"

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type Store struct {
	DB  *gorm.DB
	TTL time.Duration

	now func() time.Time
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{DB: db, TTL: ttl, now: time.Now}
}

func (s *Store) Issue(ctx context.Context) (*models.CartSession, error) {
	now := s.now()
	sess := &models.CartSession{
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.TTL),
		CreatedAt: now,
	}
	if err := s.DB.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return sess, nil
}

func (s *Store) Lookup(ctx context.Context, token string) (*models.CartSession, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var sess models.CartSession
	err := s.DB.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, ErrExpired
	}
	return &sess, nil
}

// Purge deletes expired sessions together with their guest cart lines.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	now := s.now()
	var purged int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.CartSession{}).Select("token").Where("expires_at <= ?", now)
		if err := tx.Where("user_id IS NULL AND session_id IN (?)", expired).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at <= ?", now).Delete(&models.CartSession{})
		purged = res.RowsAffected
		return res.Error
	})
	return purged, err
}

// Middleware resolves the session cookie, issuing a fresh session when
// the cookie is missing, unknown or expired.
func (s *Store) Middleware(cookieName string, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.Lookup(c.UserContext(), c.Cookies(cookieName))
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
				return err
			}
			if sess, err = s.Issue(c.UserContext()); err != nil {
				return err
			}
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sess.Token,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(localsKey, sess.Token)
		return c.Next()
	}
}

// ID returns the session token resolved by Middleware.
func ID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsKey).(string)
	return id
}
