package config_test

import (
	"testing"

	"storefront_backend/config"
	"storefront_backend/internal/testutil"
	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, config.Seed(db))
	users := testutil.Count(t, db, &models.User{})
	categories := testutil.Count(t, db, &models.Category{})
	products := testutil.Count(t, db, &models.Product{})
	assert.Equal(t, int64(2), users)
	assert.Positive(t, categories)
	assert.Positive(t, products)

	require.NoError(t, config.Seed(db))
	assert.Equal(t, users, testutil.Count(t, db, &models.User{}))
	assert.Equal(t, categories, testutil.Count(t, db, &models.Category{}))
	assert.Equal(t, products, testutil.Count(t, db, &models.Product{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@shop.com").First(&admin).Error)
	assert.True(t, admin.IsAdmin())
	assert.True(t, utils.CheckPasswordHash("password123", admin.Password))
}

func TestResetAndMigrate(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, models.RoleUser)

	require.NoError(t, config.ResetAndMigrate(db))
	assert.Equal(t, int64(2), testutil.Count(t, db, &models.User{}))
}
