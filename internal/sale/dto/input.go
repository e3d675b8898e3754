package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type CartItem struct {
	PartID   int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ProcessSaleInput is a checkout request. Total is stored as given.
type ProcessSaleInput struct {
	Items         []CartItem
	Total         decimal.Decimal
	PaymentMethod model.PaymentMethod
	StaffID       int64
	CustomerID    *int64
	Notes         string
}

type SaleResult struct {
	SaleID        int64  `json:"saleId"`
	ReceiptNumber string `json:"receiptNumber"`
}
