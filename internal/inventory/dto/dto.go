package dto

import "time"

type PartFilters struct {
	// LowStockThreshold keeps parts with stock at or below the value.
	LowStockThreshold *int
	Page              int
	PageSize          int
}

type MovementFilters struct {
	PartID       int64
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
