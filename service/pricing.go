package service

import (
	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the sales tax applied to every order subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.16")

var hundred = decimal.NewFromInt(100)

type Line struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals: subtotal = Σ qty×price, tax = round(subtotal×rate, 2),
// total = subtotal + tax − discount.
func ComputeTotals(lines []Line, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

type CostLine struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	StorageUnit  string          `json:"storage_unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LineCost     decimal.Decimal `json:"line_cost"`
	MissingCost  bool            `json:"missing_cost"`
}

type CostBreakdown struct {
	Lines      []CostLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Incomplete bool            `json:"incomplete"`
}

// RollUpCost sums storage-unit cost × quantity over the links. The links must
// have their Ingredient preloaded; a link without one, or with no usable cost,
// contributes zero and marks the breakdown incomplete.
func RollUpCost(links []models.RecipeIngredient) CostBreakdown {
	out := CostBreakdown{Lines: make([]CostLine, 0, len(links)), Total: decimal.Zero}
	for _, link := range links {
		line := CostLine{
			IngredientID: link.IngredientID,
			Quantity:     link.Quantity,
			UnitCost:     decimal.Zero,
			LineCost:     decimal.Zero,
		}
		if link.Ingredient != nil {
			line.Name = link.Ingredient.Name
			line.StorageUnit = link.Ingredient.StorageUnit
			if cost, ok := link.Ingredient.StorageUnitCost(); ok && cost.IsPositive() {
				line.UnitCost = cost
				line.LineCost = cost.Mul(link.Quantity)
			} else {
				line.MissingCost = true
			}
		} else {
			line.MissingCost = true
		}
		if line.MissingCost {
			out.Incomplete = true
		}
		out.Total = out.Total.Add(line.LineCost)
		out.Lines = append(out.Lines, line)
	}
	return out
}

// Margin returns (price − cost) / price. ok is false when price is zero, where
// the margin is undefined.
func Margin(price, cost decimal.Decimal) (ratio decimal.Decimal, ok bool) {
	if price.IsZero() {
		return decimal.Zero, false
	}
	return price.Sub(cost).Div(price), true
}

// marginFields renders Margin as the API's ratio/percentage pair.
func marginFields(price, cost decimal.Decimal) (*decimal.Decimal, *decimal.Decimal) {
	ratio, ok := Margin(price, cost)
	if !ok {
		return nil, nil
	}
	r := ratio.Round(4)
	pct := ratio.Mul(hundred).Round(2)
	return &r, &pct
}
