package cart

import (
	"context"
	"testing"

	"storefront_backend/internal/testutil"
	"storefront_backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Service, *models.Product) {
	db := testutil.NewDB(t)
	category := testutil.CreateCategory(t, db, "Electronics")
	product := testutil.CreateProduct(t, db, category.ID, "Headphones", 40, 5)
	return db, NewService(db), product
}

func TestAddMergesLines(t *testing.T) {
	db, svc, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	scope := UserScope(user.ID)
	ctx := context.Background()

	first, err := svc.Add(ctx, scope, product.ID, 2)
	require.NoError(t, err)
	second, err := svc.Add(ctx, scope, product.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.CartItem{}))

	summary, err := svc.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.TotalItems)
	assert.True(t, decimal.NewFromInt(120).Equal(summary.TotalPrice))
	require.NotNil(t, summary.Items[0].Product)
	require.NotNil(t, summary.Items[0].Product.Category)
	assert.Equal(t, "Electronics", summary.Items[0].Product.Category.Name)
}

func TestAddRespectsStock(t *testing.T) {
	db, svc, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	scope := UserScope(user.ID)
	ctx := context.Background()

	_, err := svc.Add(ctx, scope, product.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.Add(ctx, scope, product.ID, 4)
	require.NoError(t, err)
	_, err = svc.Add(ctx, scope, product.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	summary, err := svc.List(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalItems)
}

func TestAddRejectsBadInput(t *testing.T) {
	db, svc, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	ctx := context.Background()

	_, err := svc.Add(ctx, UserScope(user.ID), product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(ctx, UserScope(user.ID), 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Add(ctx, Scope{}, product.ID, 1)
	assert.ErrorIs(t, err, ErrNoScope)
}

func TestScopesAreIsolated(t *testing.T) {
	db, svc, product := setup(t)
	alice := testutil.CreateUser(t, db, models.RoleUser)
	bob := testutil.CreateUser(t, db, models.RoleUser)
	ctx := context.Background()

	_, err := svc.Add(ctx, UserScope(alice.ID), product.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, SessionScope("guest-a"), product.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, SessionScope("guest-b"), product.ID, 3)
	require.NoError(t, err)

	for _, tc := range []struct {
		name  string
		scope Scope
		items int
	}{
		{"alice", UserScope(alice.ID), 1},
		{"bob", UserScope(bob.ID), 0},
		{"guest-a", SessionScope("guest-a"), 2},
		{"guest-b", SessionScope("guest-b"), 3},
		{"unknown session", SessionScope("guest-c"), 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := svc.List(ctx, tc.scope)
			require.NoError(t, err)
			assert.Equal(t, tc.items, summary.TotalItems)
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	db, svc, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	other := testutil.CreateUser(t, db, models.RoleUser)
	scope := UserScope(user.ID)
	ctx := context.Background()

	item, err := svc.Add(ctx, scope, product.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, scope, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateQuantity(ctx, scope, item.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.UpdateQuantity(ctx, scope, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(ctx, UserScope(other.ID), item.ID, 2)
	assert.ErrorIs(t, err, ErrItemNotFound)

	var stored models.CartItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, 5, stored.Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	db, svc, product := setup(t)
	category := testutil.CreateCategory(t, db, "Books")
	book := testutil.CreateProduct(t, db, category.ID, "Atlas", 15, 10)
	user := testutil.CreateUser(t, db, models.RoleUser)
	scope := UserScope(user.ID)
	guest := SessionScope("guest")
	ctx := context.Background()

	item, err := svc.Add(ctx, scope, product.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, scope, book.ID, 1)
	require.NoError(t, err)
	guestItem, err := svc.Add(ctx, guest, book.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, scope, guestItem.ID), ErrItemNotFound)
	require.NoError(t, svc.Remove(ctx, scope, item.ID))
	assert.ErrorIs(t, svc.Remove(ctx, scope, item.ID), ErrItemNotFound)

	require.NoError(t, svc.Clear(ctx, scope))
	summary, err := svc.List(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.TotalPrice.IsZero())

	summary, err = svc.List(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCartLineNeedsExactlyOneOwner(t *testing.T) {
	db, _, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	sid := "guest"

	err := db.Create(&models.CartItem{ProductID: product.ID, Quantity: 1}).Error
	assert.ErrorIs(t, err, models.ErrCartOwner)

	err = db.Create(&models.CartItem{ProductID: product.ID, Quantity: 1, UserID: &user.ID, SessionID: &sid}).Error
	assert.ErrorIs(t, err, models.ErrCartOwner)
}

func TestDeletingProductRemovesCartLines(t *testing.T) {
	db, svc, product := setup(t)
	user := testutil.CreateUser(t, db, models.RoleUser)
	_, err := svc.Add(context.Background(), UserScope(user.ID), product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)
	assert.Zero(t, testutil.Count(t, db, &models.CartItem{}))
}
