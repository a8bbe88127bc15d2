package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAccumulatesQuantity(t *testing.T) {
	c := newCart()

	require.NoError(t, c.AddItem(1, 10, 2))
	require.NoError(t, c.AddItem(1, 10, 3))

	assert.Equal(t, 5, c.Items[1])
	assert.Equal(t, uint(10), c.StallID)
}

func TestAddItemClampsQuantity(t *testing.T) {
	c := newCart()

	require.NoError(t, c.AddItem(1, 10, 0))
	assert.Equal(t, MinQuantity, c.Items[1])

	require.NoError(t, c.AddItem(2, 10, 25))
	assert.Equal(t, MaxQuantity, c.Items[2])
}

func TestAddItemRejectsSecondStall(t *testing.T) {
	c := newCart()

	require.NoError(t, c.AddItem(1, 10, 1))
	err := c.AddItem(7, 20, 1)

	assert.ErrorIs(t, err, ErrCrossStall)
	assert.NotContains(t, c.Items, uint(7))
	assert.Equal(t, uint(10), c.StallID)
}

func TestRemoveLastItemReleasesStallLock(t *testing.T) {
	c := newCart()
	require.NoError(t, c.AddItem(1, 10, 1))
	require.NoError(t, c.AddItem(2, 10, 1))

	c.RemoveItem(1)
	assert.Equal(t, uint(10), c.StallID)

	c.RemoveItem(2)
	assert.Equal(t, uint(0), c.StallID)

	// Cart may now hold a different stall.
	require.NoError(t, c.AddItem(7, 20, 1))
	assert.Equal(t, uint(20), c.StallID)
}

func TestClearEmptiesCart(t *testing.T) {
	c := newCart()
	require.NoError(t, c.AddItem(1, 10, 3))

	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, uint(0), c.StallID)
}

func TestTotalUsesLivePrices(t *testing.T) {
	c := newCart()
	require.NoError(t, c.AddItem(1, 10, 2))
	require.NoError(t, c.AddItem(2, 10, 1))

	prices := map[uint]float64{1: 45.0, 2: 15.0}
	priceOf := func(id uint) (float64, bool) {
		p, ok := prices[id]
		return p, ok
	}
	assert.InDelta(t, 105.0, c.Total(priceOf), 1e-9)

	// The cart total follows live price changes; only order creation
	// freezes prices.
	prices[1] = 50.0
	assert.InDelta(t, 115.0, c.Total(priceOf), 1e-9)

	// Unknown items are skipped rather than failing the total.
	delete(prices, 2)
	assert.InDelta(t, 100.0, c.Total(priceOf), 1e-9)
}

func TestStoreKeepsCartsPerStudent(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Get(1).AddItem(1, 10, 1))
	require.NoError(t, s.Get(2).AddItem(9, 20, 2))

	assert.Equal(t, uint(10), s.Get(1).StallID)
	assert.Equal(t, uint(20), s.Get(2).StallID)

	s.Drop(1)
	assert.Empty(t, s.Get(1).Items)
	assert.Equal(t, 2, s.Get(2).Items[9])
}
