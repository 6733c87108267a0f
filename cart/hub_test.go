package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func TestHubNotifyReachesSubscribers(t *testing.T) {
	hub := NewHub()

	sub := &client{send: make(chan []byte, 1), key: "m1"}
	other := &client{send: make(chan []byte, 1), key: "m2"}
	hub.register(sub)
	hub.register(other)

	items := []models.CartItem{{ProductID: "p1", UnitPrice: 4.50, Quantity: 2}}
	hub.Notify("m1", "add", items)

	select {
	case data := <-sub.send:
		var evt cartEvent
		assert.NoError(t, json.Unmarshal(data, &evt))
		assert.Equal(t, "m1", evt.CartKey)
		assert.Equal(t, "add", evt.Action)
		assert.Equal(t, 2, evt.Totals.ItemCount)
		assert.InDelta(t, 9.00, evt.Totals.TotalAmount, 1e-9)
	default:
		t.Fatal("subscriber received nothing")
	}

	// The other cart's subscriber stays quiet.
	assert.Empty(t, other.send)
}

func TestHubUnregisterDropsClient(t *testing.T) {
	hub := NewHub()
	sub := &client{send: make(chan []byte, 1), key: "m1"}
	hub.register(sub)
	hub.unregister(sub)

	// After unregister the key is gone and Notify must not panic.
	hub.Notify("m1", "add", nil)
	_, open := <-sub.send
	assert.False(t, open)
}
