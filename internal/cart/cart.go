// Package cart manages cart lines for signed-in users and anonymous
// sessions.
package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNoScope           = errors.New("cart has neither a user nor a session")
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrInsufficientStock = errors.New("not enough stock for this product")
)

// Scope identifies whose cart an operation touches. A user id always
// wins; the session token is only used for anonymous requests.
type Scope struct {
	UserID    *uint
	SessionID string
}

func UserScope(userID uint) Scope {
	return Scope{UserID: &userID}
}

func SessionScope(sessionID string) Scope {
	return Scope{SessionID: sessionID}
}

func (s Scope) valid() bool {
	return s.UserID != nil || s.SessionID != ""
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.UserID != nil {
		return db.Where("user_id = ?", *s.UserID)
	}
	return db.Where("session_id = ? AND user_id IS NULL", s.SessionID)
}

func (s Scope) owner(item *models.CartItem) {
	if s.UserID != nil {
		id := *s.UserID
		item.UserID = &id
		return
	}
	sid := s.SessionID
	item.SessionID = &sid
}

type Summary struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	TotalItems int               `json:"totalItems"`
}

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// List returns the scope's lines, each with its product and the
// product's category, plus totals at current prices.
func (s *Service) List(ctx context.Context, scope Scope) (*Summary, error) {
	if !scope.valid() {
		return nil, ErrNoScope
	}

	items := []models.CartItem{}
	err := scope.apply(s.DB.WithContext(ctx)).
		Preload("Product").
		Preload("Product.Category").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	summary := &Summary{Items: items, TotalPrice: decimal.Zero}
	for _, item := range items {
		summary.TotalItems += item.Quantity
		if item.Product != nil {
			summary.TotalPrice = summary.TotalPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return summary, nil
}

// Add puts quantity units of a product into the cart, merging with an
// existing line for the same product. The merged quantity may not exceed
// stock.
func (s *Service) Add(ctx context.Context, scope Scope, productID uint, quantity int) (*models.CartItem, error) {
	if !scope.valid() {
		return nil, ErrNoScope
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	db := s.DB.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	var item models.CartItem
	err := scope.apply(db).Where("product_id = ?", productID).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, ErrInsufficientStock
		}
		if err := db.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		item.Quantity = newQuantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{ProductID: productID, Quantity: quantity}
		scope.owner(&item)
		if err := db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	item.Product = &product
	return &item, nil
}

// UpdateQuantity sets a line's quantity. The line must belong to scope.
func (s *Service) UpdateQuantity(ctx context.Context, scope Scope, itemID uint, quantity int) (*models.CartItem, error) {
	if !scope.valid() {
		return nil, ErrNoScope
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	db := s.DB.WithContext(ctx)
	item, err := s.find(db, scope, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product == nil || item.Product.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	if err := db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	item.Quantity = quantity
	return item, nil
}

func (s *Service) Remove(ctx context.Context, scope Scope, itemID uint) error {
	if !scope.valid() {
		return ErrNoScope
	}
	db := s.DB.WithContext(ctx)
	item, err := s.find(db, scope, itemID)
	if err != nil {
		return err
	}
	if err := db.Delete(&models.CartItem{}, item.ID).Error; err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, scope Scope) error {
	if !scope.valid() {
		return ErrNoScope
	}
	if err := scope.apply(s.DB.WithContext(ctx)).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) find(db *gorm.DB, scope Scope, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := scope.apply(db).Preload("Product").Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &item, nil
}
