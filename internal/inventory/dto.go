package inventory

type CreateItemRequest struct {
	Name              string   `json:"name" validate:"required,max=200"`
	Description       string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU               string   `json:"sku,omitempty" validate:"omitempty,max=100"`
	Category          string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Quantity          *int     `json:"quantity,omitempty"`
	UnitPrice         *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ItemResponse is the wire shape of an item, including the derived
// low-stock flag the UI renders.
type ItemResponse struct {
	Item
	LowStock bool `json:"low_stock"`
}

// NewItemResponse derives the response view of an item.
func NewItemResponse(item Item) ItemResponse {
	return ItemResponse{Item: item, LowStock: item.LowStock()}
}

// NewItemListResponse maps items into their response views, preserving order.
func NewItemListResponse(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewItemResponse(item))
	}
	return out
}
