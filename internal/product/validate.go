package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError names the first field that failed a check. The check order
// is part of the contract: name, image, price, quantity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

const (
	reasonRequired    = "is required"
	reasonNumeric     = "must be numeric"
	reasonNonNegative = "must be non-negative"
)

func ValidateCreate(req CreateProductRequest) *ValidationError {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Reason: reasonRequired}
	}
	if strings.TrimSpace(req.Image) == "" {
		return &ValidationError{Field: "image", Reason: reasonRequired}
	}
	if err := checkPrice(req.Price, true); err != nil {
		return err
	}
	if req.Quantity == nil {
		return &ValidationError{Field: "quantity", Reason: reasonRequired}
	}
	if *req.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: reasonNonNegative}
	}
	return nil
}

// ValidateUpdate only looks at fields the client actually sent; an empty
// string and an absent key are both "leave unchanged".
func ValidateUpdate(req UpdateProductRequest) *ValidationError {
	if req.Price != "" {
		if err := checkPrice(req.Price, false); err != nil {
			return err
		}
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: reasonNonNegative}
	}
	return nil
}

func checkPrice(raw string, required bool) *ValidationError {
	if strings.TrimSpace(raw) == "" {
		if required {
			return &ValidationError{Field: "price", Reason: reasonRequired}
		}
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return &ValidationError{Field: "price", Reason: reasonNumeric}
	}
	if d.IsNegative() {
		return &ValidationError{Field: "price", Reason: reasonNonNegative}
	}
	return nil
}
