package invoice

import (
	"fmt"

	"github.com/diewo77/invoice-api/internal/money"
)

var (
	minPrice = money.FromInt(MinPrice)
	maxPrice = money.FromInt(MaxPrice)
)

// ValidateItems enforces the per-item bounds. It stops at the first violation.
func ValidateItems(items []LineItem) error {
	if len(items) == 0 {
		return newValidationError("items", CodeRequired, "At least one item is required.")
	}
	for i, it := range items {
		if it.Quantity < MinQuantity || it.Quantity > MaxQuantity {
			return newValidationError(fmt.Sprintf("items[%d].quantity", i), CodeOutOfRange,
				fmt.Sprintf("Item quantity must be between %d and %d", MinQuantity, MaxQuantity))
		}
		if it.Price.Cmp(minPrice) < 0 || it.Price.Cmp(maxPrice) > 0 {
			return newValidationError(fmt.Sprintf("items[%d].price", i), CodeOutOfRange,
				fmt.Sprintf("Item price must be between %d and %d", MinPrice, MaxPrice))
		}
	}
	return nil
}

// checkDuplicateIDs rejects an item list that references the same identifier twice.
func checkDuplicateIDs(items []LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			return newValidationError(fmt.Sprintf("items[%d].id", i), CodeDuplicate,
				fmt.Sprintf("Item id %q appears more than once", it.ID))
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func checkIdentity(id Identity) error {
	if id.UserID == "" || id.Email == "" {
		return ErrMissingIdentity
	}
	return nil
}
