package orders

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

func loadItems(r *http.Request, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemsCollection.Find(r.Context(), bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	items := []models.OrderItem{}
	if err := cursor.All(r.Context(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrdersCollection.Find(r.Context(), bson.M{"memberId": memberID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order with its lines. Members only see their
// own orders; admins see everything.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	err := db.OrdersCollection.FindOne(r.Context(),
		bson.M{"orderId": ps.ByName("orderId")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}
	if order.MemberID != utils.GetUserIDFromRequest(r) && !utils.IsAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "not your order")
		return
	}

	items, err := loadItems(r, order.OrderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": order, "items": items})
}

// GetDistributionOrders lists every order of a distribution for the
// back office, newest first.
func GetDistributionOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrdersCollection.Find(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// ProducerSummary aggregates what one producer must prepare for a
// distribution.
type ProducerSummary struct {
	ProducerID string  `json:"producerId"`
	Quantity   int     `json:"quantity"`
	Amount     float64 `json:"amount"`
}

// Summarize folds order lines into per-producer preparation totals.
func Summarize(items []models.OrderItem) []ProducerSummary {
	byProducer := map[string]*ProducerSummary{}
	for _, item := range items {
		s, ok := byProducer[item.ProducerID]
		if !ok {
			s = &ProducerSummary{ProducerID: item.ProducerID}
			byProducer[item.ProducerID] = s
		}
		s.Quantity += item.Quantity
		s.Amount += item.LineTotal
	}
	out := make([]ProducerSummary, 0, len(byProducer))
	for _, s := range byProducer {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProducerID < out[j].ProducerID })
	return out
}

// GetDistributionSummary aggregates a distribution's orders for the
// back office: overall totals plus per-producer preparation lists.
func GetDistributionSummary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	distributionID := ps.ByName("distributionId")

	cursor, err := db.OrdersCollection.Find(r.Context(), bson.M{"distributionId": distributionID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to summarize orders")
		return
	}
	var orders []models.Order
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to summarize orders")
		return
	}

	orderIDs := make([]string, 0, len(orders))
	var total float64
	for _, o := range orders {
		orderIDs = append(orderIDs, o.OrderID)
		total += o.Totals.TotalAmount
	}

	items := []models.OrderItem{}
	if len(orderIDs) > 0 {
		cursor, err = db.OrderItemsCollection.Find(r.Context(),
			bson.M{"orderId": bson.M{"$in": orderIDs}})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to summarize orders")
			return
		}
		if err := cursor.All(r.Context(), &items); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to summarize orders")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"distributionId": distributionID,
		"orderCount":     len(orders),
		"totalAmount":    total,
		"producers":      Summarize(items),
	})
}
