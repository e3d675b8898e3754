package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentGCash        PaymentMethod = "gcash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCredit       PaymentMethod = "credit"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentGCash, PaymentBankTransfer, PaymentCredit:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
)

// Sale is written once when the transaction commits and never edited.
// TotalAmount is the caller-declared total.
type Sale struct {
	ID            int64           `db:"id" json:"id"`
	SaleDate      time.Time       `db:"sale_date" json:"sale_date"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
	StaffID       int64           `db:"staff_id" json:"staff_id"`
	CustomerID    *int64          `db:"customer_id" json:"customer_id,omitempty"`
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	Notes         string          `db:"notes" json:"notes"`
	Status        SaleStatus      `db:"status" json:"status"`
	Details       []SaleDetail    `db:"-" json:"details,omitempty"`
}

// SaleDetail is one cart line; PriceAtSale is captured independently of the
// part's current catalog price.
type SaleDetail struct {
	SaleID      int64           `db:"sale_id" json:"sale_id"`
	LineNo      int             `db:"line_no" json:"line_no"`
	PartID      int64           `db:"part_id" json:"part_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	PriceAtSale decimal.Decimal `db:"price_at_sale" json:"price_at_sale"`
}

func (d SaleDetail) Subtotal() decimal.Decimal {
	return d.PriceAtSale.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
