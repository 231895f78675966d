package models

import "time"

// Stock movement directions.
const (
	StockIn  = "in"
	StockOut = "out"
)

// StockMovement is the model for the 'stock_movements' table.
type StockMovement struct {
	ID         int64     `json:"id" db:"id"`
	VariantID  int64     `json:"variantId" db:"variant_id"`
	Direction  string    `json:"direction" db:"direction"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Note       *string   `json:"note,omitempty" db:"note"`
	RecordedBy int64     `json:"recordedBy" db:"recorded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type StockMovementInput struct {
	VariantID int64   `json:"variantId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Note      *string `json:"note"`
}
