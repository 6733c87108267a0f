package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func cartFixture() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", VariantID: "v1", SaleDateKey: "2026-09-02", SaleDateLabel: "02/09/2026",
			Name: "Tomates anciennes", VariantLabel: "1kg", ProducerID: "farm1",
			OfferItemID: "dist1_p1_v1_0", UnitPrice: 4.50, Quantity: 2},
		{ProductID: "p2", VariantID: "v3", SaleDateKey: "2026-09-02", SaleDateLabel: "02/09/2026",
			Name: "Fromage de chèvre", VariantLabel: "pièce", ProducerID: "farm2",
			OfferItemID: "dist1_p2_v3_0", UnitPrice: 3.20, Quantity: 3},
	}
}

func TestBuildOrderTotals(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	order, lines := BuildOrder("dist1", "m1", cartFixture(), now)

	assert.Equal(t, "dist1", order.DistributionID)
	assert.Equal(t, "m1", order.MemberID)
	assert.Equal(t, models.OrderValidated, order.Status)
	assert.Equal(t, 5, order.Totals.ItemCount)
	assert.InDelta(t, 18.60, order.Totals.TotalAmount, 1e-9)
	assert.NotNil(t, order.ValidatedAt)
	assert.Equal(t, now, *order.ValidatedAt)

	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, order.OrderID, line.OrderID)
	}
	assert.InDelta(t, 9.00, lines[0].LineTotal, 1e-9)
	assert.InDelta(t, 9.60, lines[1].LineTotal, 1e-9)
	assert.Equal(t, "02/09/2026", lines[0].SaleDateLabel)
}

func TestBuildOrderEmptyCart(t *testing.T) {
	order, lines := BuildOrder("dist1", "m1", nil, time.Now())
	assert.Empty(t, lines)
	assert.Equal(t, 0, order.Totals.ItemCount)
	assert.Equal(t, 0.0, order.Totals.TotalAmount)
}

func TestSummarize(t *testing.T) {
	_, lines := BuildOrder("dist1", "m1", cartFixture(), time.Now())
	lines = append(lines, models.OrderItem{ProducerID: "farm1", Quantity: 1, LineTotal: 2.50})

	summary := Summarize(lines)
	assert.Len(t, summary, 2)
	assert.Equal(t, "farm1", summary[0].ProducerID)
	assert.Equal(t, 3, summary[0].Quantity)
	assert.InDelta(t, 11.50, summary[0].Amount, 1e-9)
	assert.Equal(t, "farm2", summary[1].ProducerID)
	assert.Equal(t, 3, summary[1].Quantity)
}

func TestReceiptPayloadRoundTrip(t *testing.T) {
	payload := ReceiptPayload("ord_1", "m1", time.Now())

	orderID, ok := VerifyReceiptPayload(payload)
	assert.True(t, ok)
	assert.Equal(t, "ord_1", orderID)

	// A tampered payload must not verify.
	_, ok = VerifyReceiptPayload("ord_2" + payload[5:])
	assert.False(t, ok)
	_, ok = VerifyReceiptPayload("garbage")
	assert.False(t, ok)
}
