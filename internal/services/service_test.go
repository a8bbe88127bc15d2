package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campuseats/campus-food-api/internal/database"
	"github.com/campuseats/campus-food-api/internal/models"
)

// testFixture bundles the seeded reference data every service test needs
type testFixture struct {
	db *gorm.DB

	stallA models.FoodStall
	stallB models.FoodStall

	thali  models.FoodItem // stall A, 80.00
	samosa models.FoodItem // stall A, 15.00
	soldOut models.FoodItem // stall A, unavailable
	burger models.FoodItem // stall B, 60.00

	lunchSlot models.TimeSlot // capacity 3
	tinySlot  models.TimeSlot // capacity 1
}

func setupTestDB(t *testing.T) *testFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &testFixture{db: db}

	f.stallA = models.FoodStall{Name: "Block 32 Cafeteria", IsOpen: true}
	f.stallB = models.FoodStall{Name: "Juice Corner", IsOpen: true}
	require.NoError(t, db.Create(&f.stallA).Error)
	require.NoError(t, db.Create(&f.stallB).Error)

	f.thali = models.FoodItem{StallID: f.stallA.ID, Name: "Veg Thali", Price: 80.00, Category: models.CategoryLunch, IsAvailable: true}
	f.samosa = models.FoodItem{StallID: f.stallA.ID, Name: "Samosa", Price: 15.00, Category: models.CategorySnacks, IsAvailable: true}
	f.soldOut = models.FoodItem{StallID: f.stallA.ID, Name: "Special Biryani", Price: 120.00, Category: models.CategoryLunch, IsAvailable: false}
	f.burger = models.FoodItem{StallID: f.stallB.ID, Name: "Veg Burger", Price: 60.00, Category: models.CategorySnacks, IsAvailable: true}
	for _, item := range []*models.FoodItem{&f.thali, &f.samosa, &f.soldOut, &f.burger} {
		require.NoError(t, db.Create(item).Error)
	}

	f.lunchSlot = models.TimeSlot{Label: "12:00-12:30", SlotIndex: 2, MaxCapacity: 3}
	f.tinySlot = models.TimeSlot{Label: "10:00-10:30", SlotIndex: 1, MaxCapacity: 1}
	require.NoError(t, db.Create(&f.lunchSlot).Error)
	require.NoError(t, db.Create(&f.tinySlot).Error)

	return f
}

// placeOrder is a shorthand for creating a simple one-item order
func placeOrder(t *testing.T, svc OrderService, f *testFixture, studentID uint, slotID uint) models.Order {
	t.Helper()
	order, err := svc.Create(CreateOrderInput{
		StudentID:  studentID,
		StallID:    f.stallA.ID,
		TimeSlotID: slotID,
		Items:      []OrderLine{{FoodItemID: f.samosa.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}
