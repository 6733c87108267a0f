package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/distributions"
	"brouette/models"
	"brouette/utils"
)

// Dashboard aggregates the back-office landing numbers: the open
// sale, member and producer counts, and the orders of the current
// distribution.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	members, err := db.MembersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	producers, err := db.ProducersCollection.CountDocuments(ctx, bson.M{"coopStatus": "active"})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	products, err := db.ProductsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	out := utils.M{
		"members":   members,
		"producers": producers,
		"products":  products,
		"open":      false,
	}

	dist, err := distributions.FindOpen(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	if dist != nil {
		cursor, err := db.OrdersCollection.Find(ctx, bson.M{"distributionId": dist.DistributionID})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		var total float64
		for _, o := range orders {
			total += o.Totals.TotalAmount
		}
		out["open"] = true
		out["distribution"] = dist
		out["orderCount"] = len(orders)
		out["orderTotal"] = total
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetMembers lists accounts for the back office.
func GetMembers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.MembersCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	members := []models.Member{}
	if err := cursor.All(r.Context(), &members); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, members)
}

// UpdateMember lets an admin edit an account's name, phone or role.
func UpdateMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != "" {
		set["name"] = patch.Name
	}
	if patch.Phone != "" {
		set["phone"] = patch.Phone
	}
	if patch.Role != "" {
		if patch.Role != "member" && patch.Role != "admin" {
			utils.RespondWithError(w, http.StatusBadRequest, "role must be member or admin")
			return
		}
		set["auth.role"] = patch.Role
	}

	res, err := db.MembersCollection.UpdateOne(r.Context(),
		bson.M{"memberId": ps.ByName("memberId")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update member")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "member not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "member updated", nil)
}

// RemoveMember deletes an account and its cart. Orders are kept for
// the books.
func RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	memberID := ps.ByName("memberId")
	if memberID == utils.GetUserIDFromRequest(r) {
		utils.RespondWithError(w, http.StatusBadRequest, "cannot remove your own account")
		return
	}

	res, err := db.MembersCollection.DeleteOne(r.Context(), bson.M{"memberId": memberID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to remove member")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "member not found")
		return
	}
	if _, err := db.CartsCollection.DeleteMany(r.Context(), bson.M{"cartKey": memberID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to clear member cart")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "member removed", nil)
}
