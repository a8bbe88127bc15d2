package models

// FoodStall represents a food stall on campus
type FoodStall struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open" gorm:"default:true"`
}
