package transaction

import "github.com/google/uuid"

// ListFilter narrows a transaction listing.
type ListFilter struct {
	UserID    uuid.NullUUID
	Type      Type
	Status    Status
	ListingID uuid.NullUUID
	Page      int
	PerPage   int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// Summary aggregates transaction totals, used by the admin dashboard.
type Summary struct {
	TotalCount     int64 `db:"total_count" json:"total_count"`
	TotalAmount    int64 `db:"total_amount" json:"total_amount"`
	PendingCount   int64 `db:"pending_count" json:"pending_count"`
	PendingAmount  int64 `db:"pending_amount" json:"pending_amount"`
	CompletedCount int64 `db:"completed_count" json:"completed_count"`
	RevenueTotal   int64 `db:"revenue_total" json:"revenue_total"`
}
