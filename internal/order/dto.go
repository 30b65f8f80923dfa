package order

// ItemRequest is one product-and-quantity entry of a placement. The wire
// names (`id`, `itemQty`) are kept from the legacy storefront client.
// swagger:model ItemRequest
type ItemRequest struct {
	ProductID string `json:"id"      example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"itemQty" example:"2"`
}

// PlaceOrderRequest payload de creación de pedido.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	CustomerName string        `json:"customer_name" example:"Lorium"`
	Address      string        `json:"address"       example:"Epsume 35/2"`
	Items        []ItemRequest `json:"items"`
}
