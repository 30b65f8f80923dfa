package order

import "time"

type Order struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	Total        string    `json:"total"` // NUMERIC -> string
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Line struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is the placement result: the order header plus its lines joined
// with enough product detail to render.
type Receipt struct {
	Order Order         `json:"order"`
	Lines []ReceiptLine `json:"lines"`
}

type ReceiptLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}
