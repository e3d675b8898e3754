package dto

import "time"

type SaleFilters struct {
	// Query matches receipt numbers and notes.
	Query    string
	StaffID  int64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
