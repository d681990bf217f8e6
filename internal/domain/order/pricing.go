package order

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
)

// Line is one requested (product, quantity) pair.
type Line struct {
	ProductID uint
	Quantity  int
}

func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return httperr.ErrValidation("empty_order", "Order must have at least one item")
	}
	for _, l := range lines {
		if l.ProductID == 0 {
			return httperr.ErrValidation("invalid_product", "Invalid product ID")
		}
		if l.Quantity < 1 {
			return httperr.ErrValidation("invalid_quantity", "Quantity must be at least 1")
		}
	}
	return nil
}

func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ProductIDs returns the distinct products of lines in ascending order, the
// order in which their rows are locked.
func ProductIDs(lines []Line) []uint {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
