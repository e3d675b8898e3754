package dto

import "time"

const EventSaleCompleted = "SaleCompleted"

// SaleCompletedEvent is published once per committed sale, keyed by receipt.
type SaleCompletedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   SaleCompletedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type SaleCompletedPayload struct {
	SaleID        int64             `json:"sale_id"`
	ReceiptNumber string            `json:"receipt_number"`
	StaffID       int64             `json:"staff_id"`
	CustomerID    *int64            `json:"customer_id,omitempty"`
	TotalAmount   string            `json:"total_amount"`
	PaymentMethod string            `json:"payment_method"`
	Items         []SaleItemPayload `json:"items"`
}

type SaleItemPayload struct {
	PartID   int64  `json:"part_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// SaleDocument is the receipt search document.
type SaleDocument struct {
	ID            int64     `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`
	SaleDate      time.Time `json:"sale_date"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	StaffID       int64     `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	CustomerID    *int64    `json:"customer_id,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PartNames     []string  `json:"part_names"`
}
