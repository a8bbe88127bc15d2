package models

import "time"

// DemandRecord is the daily demand aggregate for one food item in one
// time slot, unique per (food_item, date, time_slot). QuantityOrdered
// is order volume at time of placement: it is never decremented when
// an order is later cancelled.
type DemandRecord struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FoodItemID      uint      `json:"food_item_id" gorm:"not null;uniqueIndex:idx_demand_key"`
	FoodItem        FoodItem  `json:"food_item,omitempty" gorm:"foreignKey:FoodItemID"`
	Date            time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_demand_key"`
	TimeSlotID      uint      `json:"time_slot_id" gorm:"not null;uniqueIndex:idx_demand_key"`
	TimeSlot        TimeSlot  `json:"time_slot,omitempty" gorm:"foreignKey:TimeSlotID"`
	DayOfWeek       int       `json:"day_of_week" gorm:"not null"` // 0=Monday, 6=Sunday
	QuantityOrdered int       `json:"quantity_ordered" gorm:"default:0"`
	PredictedDemand int       `json:"predicted_demand" gorm:"default:0"`
}

// WeekdayIndex converts time.Weekday (Sunday=0) to the 0=Monday
// convention used across demand features and records.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
