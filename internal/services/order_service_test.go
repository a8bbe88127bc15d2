package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/campus-food-api/internal/models"
)

func newOrderService(f *testFixture) (OrderService, AdmissionService) {
	admission := NewAdmissionService(f.db)
	return NewOrderService(f.db, admission), admission
}

func TestCreateOrderComputesTotalAndFreezesPrices(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)

	order, err := svc.Create(CreateOrderInput{
		StudentID:  1,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items: []OrderLine{
			{FoodItemID: f.thali.ID, Quantity: 2},
			{FoodItemID: f.samosa.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 2*80.00+3*15.00, order.TotalAmount, 1e-9)
	assert.NotEmpty(t, order.PickupCode)
	require.Len(t, order.Items, 2)

	var total float64
	for _, item := range order.Items {
		total += item.Subtotal()
	}
	assert.InDelta(t, order.TotalAmount, total, 1e-9)

	// Raising the live price must not touch existing line items.
	require.NoError(t, f.db.Model(&models.FoodItem{}).
		Where("id = ?", f.thali.ID).
		Update("price", 95.00).Error)

	reloaded, err := svc.GetByID(order.ID)
	require.NoError(t, err)
	for _, item := range reloaded.Items {
		if item.FoodItemID == f.thali.ID {
			assert.InDelta(t, 80.00, item.PriceAtOrder, 1e-9)
		}
	}
	assert.InDelta(t, order.TotalAmount, reloaded.TotalAmount, 1e-9)
}

func TestCreateOrderValidation(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)

	t.Run("empty order", func(t *testing.T) {
		_, err := svc.Create(CreateOrderInput{
			StudentID:  1,
			StallID:    f.stallA.ID,
			TimeSlotID: f.lunchSlot.ID,
		})
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("unavailable item", func(t *testing.T) {
		_, err := svc.Create(CreateOrderInput{
			StudentID:  1,
			StallID:    f.stallA.ID,
			TimeSlotID: f.lunchSlot.ID,
			Items:      []OrderLine{{FoodItemID: f.soldOut.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrUnavailableItem)
	})

	t.Run("item from another stall", func(t *testing.T) {
		_, err := svc.Create(CreateOrderInput{
			StudentID:  1,
			StallID:    f.stallA.ID,
			TimeSlotID: f.lunchSlot.ID,
			Items: []OrderLine{
				{FoodItemID: f.thali.ID, Quantity: 1},
				{FoodItemID: f.burger.ID, Quantity: 1},
			},
		})
		assert.ErrorIs(t, err, ErrCrossStall)
	})
}

func TestSlotFillsToExactlyMaxCapacity(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)

	// lunchSlot holds 3 orders.
	for i := uint(1); i <= 3; i++ {
		placeOrder(t, svc, f, i, f.lunchSlot.ID)
	}

	_, err := svc.Create(CreateOrderInput{
		StudentID:  4,
		StallID:    f.stallA.ID,
		TimeSlotID: f.lunchSlot.ID,
		Items:      []OrderLine{{FoodItemID: f.samosa.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrSlotFull)

	// No partially created order may be left behind.
	var count int64
	f.db.Model(&models.Order{}).Where("time_slot_id = ?", f.lunchSlot.ID).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestCancelledOrdersFreeCapacity(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)

	order := placeOrder(t, svc, f, 1, f.tinySlot.ID)

	_, err := svc.Create(CreateOrderInput{
		StudentID:  2,
		StallID:    f.stallA.ID,
		TimeSlotID: f.tinySlot.ID,
		Items:      []OrderLine{{FoodItemID: f.samosa.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrSlotFull)

	_, err = svc.Cancel(order.ID, 1)
	require.NoError(t, err)

	placeOrder(t, svc, f, 2, f.tinySlot.ID)
}

func TestPreparingOrdersDoNotCountAgainstCapacity(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)

	order := placeOrder(t, svc, f, 1, f.tinySlot.ID)

	// Walk the order into preparing; it then leaves the active set.
	_, err := svc.SetStatus(order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.SetStatus(order.ID, models.StatusPreparing)
	require.NoError(t, err)

	placeOrder(t, svc, f, 2, f.tinySlot.ID)
}

func TestSetStatusFollowsStateMachine(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)
	order := placeOrder(t, svc, f, 1, f.lunchSlot.ID)

	// Skipping ahead is rejected.
	_, err := svc.SetStatus(order.ID, models.StatusReady)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The full forward walk succeeds.
	for _, next := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusCompleted,
	} {
		updated, err := svc.SetStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Terminal states reject every further transition.
	_, err = svc.SetStatus(order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrTerminalState)
	_, err = svc.SetStatus(order.ID, models.StatusPending)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)
	order := placeOrder(t, svc, f, 1, f.lunchSlot.ID)

	updated, err := svc.SetStatus(order.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = svc.SetStatus(order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	updated, err = svc.SetStatus(order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)
	order := placeOrder(t, svc, f, 1, f.lunchSlot.ID)

	_, err := svc.SetStatus(order.ID, models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelWindow(t *testing.T) {
	f := setupTestDB(t)
	svc, _ := newOrderService(f)
	order := placeOrder(t, svc, f, 1, f.lunchSlot.ID)

	t.Run("only the owner may cancel", func(t *testing.T) {
		_, err := svc.Cancel(order.ID, 99)
		assert.ErrorIs(t, err, ErrNotOrderOwner)
	})

	t.Run("pending order cancels", func(t *testing.T) {
		cancelled, err := svc.Cancel(order.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, cancelled.Status)
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		_, err := svc.Cancel(order.ID, 1)
		assert.ErrorIs(t, err, ErrCancellationWindowClosed)
	})

	t.Run("confirmed order is past the window", func(t *testing.T) {
		other := placeOrder(t, svc, f, 2, f.lunchSlot.ID)
		_, err := svc.SetStatus(other.ID, models.StatusConfirmed)
		require.NoError(t, err)

		_, err = svc.Cancel(other.ID, 2)
		assert.ErrorIs(t, err, ErrCancellationWindowClosed)
	})
}
