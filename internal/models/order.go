package models

import "time"

// OrderStatus represents the state of an order in its lifecycle
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidStatuses lists every value the status column may hold
var ValidStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing,
	StatusReady, StatusCompleted, StatusCancelled,
}

// IsValidStatus reports whether s is a member of the status set
func IsValidStatus(s OrderStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is a student's order against one stall and one time slot on the
// day it was created. It owns its items; deleting the order cascades.
type Order struct {
	ID                  uint        `json:"id" gorm:"primaryKey"`
	StudentID           uint        `json:"student_id" gorm:"not null;index"`
	StallID             uint        `json:"stall_id" gorm:"not null"`
	Stall               FoodStall   `json:"stall,omitempty" gorm:"foreignKey:StallID"`
	TimeSlotID          uint        `json:"time_slot_id" gorm:"not null;index"`
	TimeSlot            TimeSlot    `json:"time_slot,omitempty" gorm:"foreignKey:TimeSlotID"`
	OrderDate           time.Time   `json:"order_date" gorm:"type:date;not null;index"`
	Status              OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalAmount         float64     `json:"total_amount"`
	SpecialInstructions string      `json:"special_instructions"`
	PickupCode          string      `json:"pickup_code"`
	Items               []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order. PriceAtOrder is the food
// item's price captured at creation time and never updated afterward.
type OrderItem struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	OrderID      uint     `json:"order_id" gorm:"not null;index"`
	FoodItemID   uint     `json:"food_item_id" gorm:"not null"`
	FoodItem     FoodItem `json:"food_item,omitempty" gorm:"foreignKey:FoodItemID"`
	Quantity     int      `json:"quantity" gorm:"not null;default:1"`
	PriceAtOrder float64  `json:"price_at_order" gorm:"not null"`
}

// Subtotal is quantity times the frozen price
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.PriceAtOrder
}
