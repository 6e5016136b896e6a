package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stockroom-app/stockroom/internal/platform/httpx"
)

// DefaultLowStockThreshold applies when a new item does not specify one.
const DefaultLowStockThreshold = 10

// Item models a single inventory record. Optional columns are pointers so
// absent values round-trip as NULL.
type Item struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OwnerID           int64      `json:"-" db:"owner_id"`
	Name              string     `json:"name" db:"name"`
	Description       *string    `json:"description,omitempty" db:"description"`
	SKU               *string    `json:"sku,omitempty" db:"sku"`
	Category          *string    `json:"category,omitempty" db:"category"`
	Quantity          int        `json:"quantity" db:"quantity"`
	UnitPrice         *float64   `json:"unit_price,omitempty" db:"unit_price"`
	LowStockThreshold *int       `json:"low_stock_threshold,omitempty" db:"low_stock_threshold"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its threshold.
// Items without a threshold are never low.
func (i Item) LowStock() bool {
	return i.LowStockThreshold != nil && i.Quantity <= *i.LowStockThreshold
}

// ErrNameRequired indicates the item name was empty after trimming.
var ErrNameRequired = fmt.Errorf("%w: item name is required", httpx.ErrValidation)
