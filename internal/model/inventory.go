package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is a sellable inventory item. StockQuantity never goes below zero.
type Part struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description,omitempty"`
	PartType      *string         `db:"part_type" json:"part_type,omitempty"`
	Brand         *string         `db:"brand" json:"brand,omitempty"`
	Price         decimal.Decimal `db:"price" json:"price"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type MovementType string

const (
	MovementSale    MovementType = "sale"
	MovementRestock MovementType = "restock"
)

type InventoryMovement struct {
	ID             int64        `db:"id" json:"id"`
	PartID         int64        `db:"part_id" json:"part_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedBy      *int64       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
