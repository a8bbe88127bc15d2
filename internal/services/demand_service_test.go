package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/campus-food-api/internal/models"
	"github.com/campuseats/campus-food-api/internal/predictor"
)

func newDemandService(f *testFixture) (DemandService, OrderService) {
	admission := NewAdmissionService(f.db)
	return NewDemandService(f.db, admission), NewOrderService(f.db, admission)
}

func TestRefreshDemandRecordsAggregatesAndIsIdempotent(t *testing.T) {
	f := setupTestDB(t)
	demand, orders := newDemandService(f)

	_, err := orders.Create(CreateOrderInput{
		StudentID:  1,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items: []OrderLine{
			{FoodItemID: f.thali.ID, Quantity: 2},
			{FoodItemID: f.samosa.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	_, err = orders.Create(CreateOrderInput{
		StudentID:  2,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items:      []OrderLine{{FoodItemID: f.thali.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	now := time.Now()
	rows, err := demand.RefreshDemandRecords(now)
	require.NoError(t, err)
	assert.Equal(t, 2, rows) // thali and samosa, one slot each

	var rec models.DemandRecord
	require.NoError(t, f.db.Where("food_item_id = ? AND time_slot_id = ?",
		f.thali.ID, f.lunchSlot.ID).First(&rec).Error)
	assert.Equal(t, 3, rec.QuantityOrdered)
	assert.Equal(t, models.WeekdayIndex(now.Weekday()), rec.DayOfWeek)

	// Re-running writes the same absolute sums, never doubles them.
	_, err = demand.RefreshDemandRecords(now)
	require.NoError(t, err)

	var count int64
	f.db.Model(&models.DemandRecord{}).Count(&count)
	assert.EqualValues(t, 2, count)

	require.NoError(t, f.db.Where("food_item_id = ? AND time_slot_id = ?",
		f.thali.ID, f.lunchSlot.ID).First(&rec).Error)
	assert.Equal(t, 3, rec.QuantityOrdered)
}

func TestRefreshKeepsCancelledOrderVolume(t *testing.T) {
	f := setupTestDB(t)
	demand, orders := newDemandService(f)

	order, err := orders.Create(CreateOrderInput{
		StudentID:  1,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items:      []OrderLine{{FoodItemID: f.samosa.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = demand.RefreshDemandRecords(time.Now())
	require.NoError(t, err)

	// The training signal is volume at placement; cancelling the order
	// afterwards must not shrink it.
	_, err = orders.Cancel(order.ID, 1)
	require.NoError(t, err)
	_, err = demand.RefreshDemandRecords(time.Now())
	require.NoError(t, err)

	var rec models.DemandRecord
	require.NoError(t, f.db.Where("food_item_id = ?", f.samosa.ID).First(&rec).Error)
	assert.Equal(t, 4, rec.QuantityOrdered)
}

func TestWeeklyChartFallsBackOnSparseHistory(t *testing.T) {
	f := setupTestDB(t)
	demand, _ := newDemandService(f)

	chart, err := demand.WeeklyChart(f.thali.ID)
	require.NoError(t, err)

	require.Equal(t, []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}, chart.Labels)
	require.Len(t, chart.Datasets, 2) // one per seeded slot

	for _, ds := range chart.Datasets {
		require.Len(t, ds.Data, 7)
		for _, v := range ds.Data {
			assert.GreaterOrEqual(t, v, 0)
		}
	}

	// No history at all, so every value is the fallback heuristic.
	for _, ds := range chart.Datasets {
		var slot models.TimeSlot
		require.NoError(t, f.db.Where("label = ?", ds.Label).First(&slot).Error)
		for day, v := range ds.Data {
			assert.Equal(t, predictor.Fallback(day, slot.SlotIndex), v)
		}
	}
}

func TestWeeklyChartUnknownItem(t *testing.T) {
	f := setupTestDB(t)
	demand, _ := newDemandService(f)

	_, err := demand.WeeklyChart(9999)
	assert.Error(t, err)
}

func TestPeakTimesReportsLoadAndThreshold(t *testing.T) {
	f := setupTestDB(t)
	demand, orders := newDemandService(f)

	placeOrder(t, orders, f, 1, f.tinySlot.ID)

	statuses, err := demand.PeakTimes()
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	today := models.WeekdayIndex(time.Now().Weekday())
	for _, st := range statuses {
		expected := predictor.Fallback(today, st.Slot.SlotIndex)
		assert.Equal(t, expected, st.PredictedDemand)
		assert.Equal(t, expected > predictor.PeakThreshold, st.IsPeak)
		assert.GreaterOrEqual(t, st.LoadPercentage, 0)
		assert.LessOrEqual(t, st.LoadPercentage, 100)

		if st.Slot.ID == f.tinySlot.ID {
			assert.Equal(t, 1, st.CurrentLoad)
			assert.Equal(t, 100, st.LoadPercentage)
		} else {
			assert.Equal(t, 0, st.CurrentLoad)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	f := setupTestDB(t)
	demand, orders := newDemandService(f)

	first, err := orders.Create(CreateOrderInput{
		StudentID:  1,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items:      []OrderLine{{FoodItemID: f.thali.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = orders.Create(CreateOrderInput{
		StudentID:  2,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items:      []OrderLine{{FoodItemID: f.samosa.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Revenue only counts accepted orders; both are still pending.
	stats, err := demand.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrdersToday)
	assert.InDelta(t, 0, stats.RevenueToday, 1e-9)

	_, err = orders.SetStatus(first.ID, models.StatusConfirmed)
	require.NoError(t, err)

	stats, err = demand.Dashboard()
	require.NoError(t, err)
	assert.InDelta(t, 80.00, stats.RevenueToday, 1e-9)
	assert.Len(t, stats.SlotOrders, 2)
	assert.Len(t, stats.PeakSlots, 2)
	assert.NotEmpty(t, stats.ItemPredictions)
	for _, p := range stats.ItemPredictions {
		assert.GreaterOrEqual(t, p.PredictedDemand, 0)
	}
}
