package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestIngredientStorageUnitCost(t *testing.T) {
	tests := []struct {
		name string
		ing  Ingredient
		want string
		ok   bool
	}{
		{"derived from purchase cost", Ingredient{ConversionFactor: nd("1000"), PurchaseUnitCost: nd("24")}, "0.024", true},
		{"direct cost only", Ingredient{CostPerUnit: nd("0.05")}, "0.05", true},
		{"derived wins over direct", Ingredient{ConversionFactor: nd("4"), PurchaseUnitCost: nd("10"), CostPerUnit: nd("9")}, "2.5", true},
		{"zero factor falls back to direct", Ingredient{ConversionFactor: nd("0"), PurchaseUnitCost: nd("10"), CostPerUnit: nd("1.2")}, "1.2", true},
		{"factor without purchase cost", Ingredient{ConversionFactor: nd("12")}, "0", false},
		{"nothing", Ingredient{}, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ing.StorageUnitCost()
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestReasonCodeValid(t *testing.T) {
	for _, r := range ReasonCodes {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, ReasonCode("gift").Valid())
	assert.False(t, ReasonCode("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("bitcoin").Valid())
}
