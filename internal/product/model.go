package product

import "time"

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
	// Offending field, when the error is a validation failure
	Field string `json:"field,omitempty"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name     string `json:"name"     example:"Mecanical Keyboard"`
	Image    string `json:"image"    example:"https://cdn.example.com/kb.png"`
	Price    string `json:"price"    example:"199.90"`
	Quantity *int   `json:"quantity" example:"10"`
}

// UpdateProductRequest payload of partial update. Empty strings and a nil
// quantity mean "leave unchanged".
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    string `json:"price"`
	Quantity *int   `json:"quantity"`
}
