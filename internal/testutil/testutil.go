// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"storefront_backend/config"
	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", seq.Add(1)),
		Password: hash,
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateProduct(t testing.TB, db *gorm.DB, categoryID uint, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		CategoryID:  categoryID,
		ImageURL:    "https://example.com/" + name + ".png",
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func AddToUserCart(t testing.TB, db *gorm.DB, userID, productID uint, quantity int) *models.CartItem {
	t.Helper()
	uid := userID
	item := &models.CartItem{ProductID: productID, Quantity: quantity, UserID: &uid}
	require.NoError(t, db.Create(item).Error)
	return item
}

func Stock(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Select("stock").First(&product, productID).Error)
	return product.Stock
}

func Count(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
