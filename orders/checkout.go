package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"brouette/cart"
	"brouette/db"
	"brouette/distributions"
	"brouette/metrics"
	"brouette/models"
	"brouette/mq"
	"brouette/utils"
)

// BuildOrder turns a cart into an order header and its lines. The
// totals are computed server-side from the snapshotted unit prices, so
// whatever the client claims the cart is worth never matters.
func BuildOrder(distributionID, memberID string, items []models.CartItem, now time.Time) (models.Order, []models.OrderItem) {
	order := models.Order{
		OrderID:        utils.GenerateID("ord", 12),
		DistributionID: distributionID,
		MemberID:       memberID,
		Status:         models.OrderValidated,
		Totals:         cart.Totals(items),
		CreatedAt:      now,
		ValidatedAt:    &now,
	}
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderItem{
			OrderID:       order.OrderID,
			OfferItemID:   item.OfferItemID,
			ProducerID:    item.ProducerID,
			ProductID:     item.ProductID,
			VariantID:     item.VariantID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LineTotal:     item.UnitPrice * float64(item.Quantity),
			Label:         item.Name,
			VariantLabel:  item.VariantLabel,
			SaleDateKey:   item.SaleDateKey,
			SaleDateLabel: item.SaleDateLabel,
		})
	}
	return order, lines
}

// Checkout validates the caller's cart against the open distribution.
// The order header and its lines land in one transaction, so a crash
// mid-checkout never leaves a headless order or orphan lines. The cart
// is cleared afterwards.
func Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	dist, err := distributions.FindOpen(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check the shop")
		return
	}
	if dist == nil {
		utils.RespondWithError(w, http.StatusConflict, "no open distribution")
		return
	}

	items, err := cart.Get(r.Context(), memberID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	now := time.Now()
	order, lines := BuildOrder(dist.DistributionID, memberID, items, now)

	err = db.WithTxn(r.Context(), func(ctx context.Context) error {
		if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
			return err
		}
		docs := make([]interface{}, len(lines))
		for i, line := range lines {
			docs[i] = line
		}
		_, err := db.OrderItemsCollection.InsertMany(ctx, docs)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("memberId", memberID).Msg("checkout failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	if err := cart.Clear(r.Context(), memberID); err != nil {
		log.Error().Err(err).Str("orderId", order.OrderID).Msg("failed to clear cart after checkout")
	}
	cart.DefaultHub.Notify(memberID, "checkout", nil)

	metrics.OrdersPlaced.Inc()
	mq.Emit("order-placed", mq.Event{
		Name:           "order-placed",
		DistributionID: dist.DistributionID,
		OrderID:        order.OrderID,
		MemberID:       memberID,
		At:             now,
	})
	log.Info().Str("orderId", order.OrderID).Str("memberId", memberID).
		Float64("total", order.Totals.TotalAmount).Msg("order placed")

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"order": order, "items": lines})
}
