package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func TestNormalizeQuantity(t *testing.T) {
	assert.Equal(t, 1, NormalizeQuantity(-3))
	assert.Equal(t, 1, NormalizeQuantity(0))
	assert.Equal(t, 1, NormalizeQuantity(1))
	assert.Equal(t, 7, NormalizeQuantity(7))
}

func TestGuestKeys(t *testing.T) {
	key := NewGuestKey()
	assert.True(t, IsGuestKey(key))
	assert.False(t, IsGuestKey("m_abc123"))
	assert.False(t, IsGuestKey(""))
	assert.NotEqual(t, key, NewGuestKey())
}

func TestTotals(t *testing.T) {
	items := []models.CartItem{
		{UnitPrice: 4.50, Quantity: 2},
		{UnitPrice: 3.20, Quantity: 1},
	}
	got := Totals(items)
	assert.InDelta(t, 12.20, got.TotalAmount, 1e-9)
	assert.Equal(t, 3, got.ItemCount)

	assert.Equal(t, models.OrderTotals{}, Totals(nil))
}

func TestCartLineID(t *testing.T) {
	item := models.CartItem{ProductID: "p1", VariantID: "v1", SaleDateKey: "2026-09-02"}
	assert.Equal(t, "p1_v1_2026-09-02", item.LineID())
}
