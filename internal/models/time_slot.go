package models

// TimeSlot is a fixed daily break window with bounded order capacity.
// Its load is derived from today's orders, never stored.
type TimeSlot struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Label       string `json:"label" gorm:"uniqueIndex;not null"` // e.g. "12:00-12:30"
	SlotIndex   int    `json:"slot_index" gorm:"not null"`        // 1-based position, model feature
	MaxCapacity int    `json:"max_capacity" gorm:"not null;default:50"`
}

// ActiveStatuses are the order statuses that count against a slot's
// capacity. Preparing and completed orders do not occupy capacity.
var ActiveStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusReady}
