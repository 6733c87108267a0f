package catalogue

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"brouette/db"
	"brouette/distributions"
	"brouette/models"
	"brouette/utils"
)

// GetShop serves the public shop listing for the currently open
// distribution. When no sale is running the shop reports itself
// closed instead of erroring so the storefront can render calmly.
func GetShop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dist, err := distributions.FindOpen(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch shop")
		return
	}
	if dist == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"open": false, "products": []ShopProduct{}})
		return
	}

	q := r.URL.Query()
	filter := Filter{
		CategoryID:  q.Get("category"),
		ProducerID:  q.Get("producer"),
		SaleDateKey: q.Get("date"),
		OrganicOnly: q.Get("organic") == "true",
		Query:       q.Get("q"),
	}

	// The unfiltered listing is the hot path; serve it from cache.
	if filter == (Filter{}) {
		if payload, ok := cachedShop(dist.DistributionID); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(payload))
			return
		}
	}

	cursor, err := db.OfferItemsCollection.Find(r.Context(),
		bson.M{"distributionId": dist.DistributionID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch shop")
		return
	}
	var items []models.OfferItem
	if err := cursor.All(r.Context(), &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch shop")
		return
	}

	dates := make([]utils.M, 0, len(dist.Dates))
	for _, d := range dist.Dates {
		dates = append(dates, utils.M{
			"key":   distributions.DateKey(d),
			"label": distributions.DateLabel(d),
		})
	}

	payload := utils.M{
		"open":           true,
		"distributionId": dist.DistributionID,
		"title":          dist.Title,
		"dates":          dates,
		"products":       BuildShop(dist, items, filter),
	}
	if filter == (Filter{}) {
		if raw, err := json.Marshal(payload); err == nil {
			cacheShop(dist.DistributionID, string(raw))
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// GetShopProduct serves one product's offers in the open distribution.
func GetShopProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dist, err := distributions.FindOpen(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if dist == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no open distribution")
		return
	}

	cursor, err := db.OfferItemsCollection.Find(r.Context(), bson.M{
		"distributionId": dist.DistributionID,
		"productId":      ps.ByName("productId"),
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	var items []models.OfferItem
	if err := cursor.All(r.Context(), &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	products := BuildShop(dist, items, Filter{})
	if len(products) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "product not on sale")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products[0])
}
