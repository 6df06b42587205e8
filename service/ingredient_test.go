package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIngredient(t *testing.T) {
	tests := []struct {
		name    string
		in      IngredientInput
		field   string
		wantErr bool
	}{
		{
			name: "direct storage-unit cost",
			in:   IngredientInput{Name: "Salt", StorageUnit: "g", CostPerUnit: nullDec("0.01")},
		},
		{
			name: "purchase cost with conversion",
			in: IngredientInput{
				Name: "Flour", StorageUnit: "g", PurchaseUnit: "kg",
				ConversionFactor: nullDec("1000"), PurchaseUnitCost: nullDec("24.00"),
			},
		},
		{
			name: "zero cost is allowed and flagged later",
			in:   IngredientInput{Name: "Water", StorageUnit: "ml", CostPerUnit: nullDec("0")},
		},
		{
			name:    "no cost data at all",
			in:      IngredientInput{Name: "Salt", StorageUnit: "g"},
			field:   "cost_per_unit",
			wantErr: true,
		},
		{
			name:    "conversion factor without a purchase cost",
			in:      IngredientInput{Name: "Flour", StorageUnit: "g", ConversionFactor: nullDec("1000")},
			field:   "cost_per_unit",
			wantErr: true,
		},
		{
			name:    "purchase cost without conversion factor",
			in:      IngredientInput{Name: "Flour", StorageUnit: "g", PurchaseUnitCost: nullDec("24.00")},
			field:   "conversion_factor",
			wantErr: true,
		},
		{
			name:    "zero conversion factor",
			in:      IngredientInput{Name: "Flour", StorageUnit: "g", ConversionFactor: nullDec("0"), PurchaseUnitCost: nullDec("24.00")},
			field:   "conversion_factor",
			wantErr: true,
		},
		{
			name:    "blank name",
			in:      IngredientInput{Name: "  ", StorageUnit: "g", CostPerUnit: nullDec("1")},
			field:   "name",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateIngredient(tt.in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
