package dto

import "github.com/shopspring/decimal"

type CreatePartInput struct {
	Name          string
	Description   *string
	PartType      *string
	Brand         *string
	Price         decimal.Decimal
	StockQuantity int
}

type DecrementInput struct {
	PartID        int64
	Quantity      int
	ReferenceType string // 'sale'
	ReferenceID   string
	UserID        *int64
}

type RestockInput struct {
	PartID      int64
	Quantity    int
	Notes       string
	ReferenceID string // supplier delivery or purchase order number
	UserID      *int64
}
