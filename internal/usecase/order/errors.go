package order

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
)

var errOrderNotFound = httperr.ErrNotFound("order_not_found", "Order not found")

func productNotFound(id uint) error {
	return httperr.ErrNotFound("product_not_found", fmt.Sprintf("Product with ID %d not found", id))
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
