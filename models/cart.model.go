package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrCartOwner is returned when a cart line is saved without exactly one owner.
var ErrCartOwner = errors.New("cart item must belong to either a user or a session")

// CartItem is one (product, quantity) line owned by a user or by an
// anonymous session, never both.
type CartItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_user_product;uniqueIndex:idx_cart_session_product" json:"productId"`
	Quantity  int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	UserID    *uint    `gorm:"uniqueIndex:idx_cart_user_product" json:"userId"`
	SessionID *string  `gorm:"size:64;uniqueIndex:idx_cart_session_product" json:"sessionId"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	hasUser := ci.UserID != nil
	hasSession := ci.SessionID != nil && *ci.SessionID != ""
	if hasUser == hasSession {
		return ErrCartOwner
	}
	return nil
}
