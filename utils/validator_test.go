package utils

import (
	"testing"

	"storefront_backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type productInput struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
	Stock *int            `json:"stock" validate:"required,gte=0"`
	Email string          `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	zero := 0
	negative := -1

	assert.Nil(t, ValidateStruct(productInput{Name: "Lamp", Price: decimal.NewFromInt(10), Stock: &zero}))

	errs := ValidateStruct(productInput{Price: decimal.Zero, Stock: &negative, Email: "nope"})
	assert.ElementsMatch(t, []models.ErrorDetail{
		{Field: "name", Message: "name is required"},
		{Field: "price", Message: "price must be greater than 0"},
		{Field: "stock", Message: "stock must be greater than or equal to 0"},
		{Field: "email", Message: "Invalid email"},
	}, errs)

	errs = ValidateStruct(productInput{Name: "Lamp", Price: decimal.NewFromInt(1)})
	assert.Equal(t, []models.ErrorDetail{{Field: "stock", Message: "stock is required"}}, errs)
}
