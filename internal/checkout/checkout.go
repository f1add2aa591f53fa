// Package checkout turns a user's cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/internal/events"
	"storefront_backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Topic string
}

func NewService(db *gorm.DB, topic string) *Service {
	return &Service{DB: db, Topic: topic}
}

// PlaceOrder converts the user's cart into a PENDING order in one
// transaction: validate stock, insert the order and its items with
// frozen prices, decrement stock, empty the cart and enqueue an
// order.created event. Any error rolls back every step.
func (s *Service) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	var orderID string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		for _, line := range lines {
			if line.Product == nil {
				return &InsufficientStockError{ProductID: line.ProductID, Requested: line.Quantity}
			}
			if line.Product.Stock < line.Quantity {
				return &InsufficientStockError{
					ProductID:   line.ProductID,
					ProductName: line.Product.Name,
					Requested:   line.Quantity,
					Available:   line.Product.Stock,
				}
			}
			total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order := models.Order{
			UserID:     userID,
			TotalPrice: total,
			Status:     models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		created := events.OrderCreated{OrderID: order.ID, UserID: userID, TotalPrice: total}
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			if err := reserve(tx, line); err != nil {
				return err
			}
			created.Items = append(created.Items, events.OrderLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		if err := events.Enqueue(tx, s.Topic, order.ID, events.TypeOrderCreated, created); err != nil {
			return fmt.Errorf("enqueue order event: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetForUser(ctx, userID, orderID)
}

// reserve decrements stock only if enough is left. A concurrent order
// that got there first leaves zero rows affected.
func reserve(tx *gorm.DB, line models.CartItem) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
		Update("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return fmt.Errorf("decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var available int
		tx.Model(&models.Product{}).Select("stock").Where("id = ?", line.ProductID).Scan(&available)
		return &InsufficientStockError{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Requested:   line.Quantity,
			Available:   available,
		}
	}
	return nil
}

// withItems is the fetch contract for an order: its items and each
// item's product.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).Preload("Items.Product")
}

// withOwner adds the owning user's public fields.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, email, name, role")
	})
}

func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := withItems(s.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *Service) GetForUser(ctx context.Context, userID uint, orderID string) (*models.Order, error) {
	var order models.Order
	err := withItems(s.DB.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return &order, err
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := withOwner(withItems(s.DB.WithContext(ctx))).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// Recent returns the newest orders with their owners, for dashboards.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := withOwner(s.DB.WithContext(ctx)).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// UpdateStatus sets any of the four statuses; transitions are not
// restricted. It returns the updated order and the previous status.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	if !status.Valid() {
		return nil, "", ErrInvalidStatus
	}

	var previous models.OrderStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id, user_id, status").Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		previous = order.Status

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		return events.Enqueue(tx, s.Topic, orderID, events.TypeOrderStatusChanged, events.OrderStatusChanged{
			OrderID: orderID,
			UserID:  order.UserID,
			From:    string(previous),
			Status:  string(status),
		})
	})
	if err != nil {
		return nil, "", err
	}

	var order models.Order
	if err := withOwner(withItems(s.DB.WithContext(ctx))).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, "", err
	}
	return &order, previous, nil
}
