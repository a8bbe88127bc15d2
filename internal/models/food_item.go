package models

// FoodCategory classifies a menu item
type FoodCategory string

const (
	CategoryBreakfast FoodCategory = "breakfast"
	CategoryLunch     FoodCategory = "lunch"
	CategorySnacks    FoodCategory = "snacks"
	CategoryBeverages FoodCategory = "beverages"
	CategoryDinner    FoodCategory = "dinner"
)

// FoodItem is a menu item sold by exactly one stall.
// Price is live data: changing it never affects line items of
// already-created orders, which keep their own price snapshot.
type FoodItem struct {
	ID              uint         `json:"id" gorm:"primaryKey"`
	StallID         uint         `json:"stall_id" gorm:"not null;index"`
	Stall           FoodStall    `json:"stall,omitempty" gorm:"foreignKey:StallID"`
	Name            string       `json:"name" gorm:"not null"`
	Description     string       `json:"description"`
	Price           float64      `json:"price" gorm:"not null"`
	Category        FoodCategory `json:"category" gorm:"default:'snacks'"`
	IsAvailable     bool         `json:"is_available" gorm:"default:true"`
	PreparationTime int          `json:"preparation_time" gorm:"default:10"` // minutes
}
