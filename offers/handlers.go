package offers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

func loadDistribution(r *http.Request, ps httprouter.Params) (*models.Distribution, error) {
	var dist models.Distribution
	err := db.DistributionsCollection.FindOne(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")}).Decode(&dist)
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// GetDistributionProducers lists the producers selected for a
// distribution.
func GetDistributionProducers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cursor, err := db.DistributionProducersCollection.Find(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}
	selected := []models.DistributionProducer{}
	if err := cursor.All(r.Context(), &selected); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, selected)
}

type producersRequest struct {
	ProducerIDs []string `json:"producerIds"`
}

// SaveDistributionProducers replaces the producer selection of a
// distribution. Producers dropped from the selection lose their offer
// items and catalogue dates for it.
func SaveDistributionProducers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dist, err := loadDistribution(r, ps)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distribution")
		return
	}

	var req producersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := r.Context()
	cursor, err := db.DistributionProducersCollection.Find(ctx,
		bson.M{"distributionId": dist.DistributionID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}
	var current []models.DistributionProducer
	if err := cursor.All(ctx, &current); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}

	wanted := map[string]bool{}
	for _, id := range req.ProducerIDs {
		wanted[id] = true
	}

	for _, dp := range current {
		if wanted[dp.ProducerID] {
			continue
		}
		if err := RemoveProducer(ctx, dist, dp.ProducerID); err != nil {
			log.Error().Err(err).Str("producerId", dp.ProducerID).Msg("failed to remove producer from distribution")
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to save producers")
			return
		}
		if _, err := db.DistributionProducersCollection.DeleteOne(ctx,
			bson.M{"distributionId": dist.DistributionID, "producerId": dp.ProducerID}); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to save producers")
			return
		}
	}

	for id := range wanted {
		_, err := db.DistributionProducersCollection.UpdateOne(ctx,
			bson.M{"distributionId": dist.DistributionID, "producerId": id},
			bson.M{"$set": bson.M{"distributionId": dist.DistributionID, "producerId": id, "active": true}},
			options.Update().SetUpsert(true))
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to save producers")
			return
		}
	}

	utils.SendResponse(w, http.StatusOK, utils.M{"producers": len(wanted)}, "producers saved", nil)
}

// GetProducerOffers returns the stored offer items of one producer in
// a distribution, already shaped as a wizard draft.
func GetProducerOffers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	items, err := loadExisting(r.Context(), ps.ByName("distributionId"), ps.ByName("producerId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch offers")
		return
	}
	draft := Draft{}
	for _, item := range items {
		draft[DraftKey(item.ProductID, item.VariantID, item.DateIndex)] = DraftEntry{
			Enabled:        true,
			LimitPerMember: item.LimitPerMember,
			LimitTotal:     item.LimitTotal,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"items": items, "draft": draft})
}

// SaveProducerOffersHandler saves one producer's wizard step.
func SaveProducerOffersHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dist, err := loadDistribution(r, ps)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distribution")
		return
	}

	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	upserted, deleted, err := SaveProducerOffers(r.Context(), dist, ps.ByName("producerId"), draft)
	if err != nil {
		log.Error().Err(err).Msg("failed to save offers")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save offers")
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"upserted": upserted, "deleted": deleted}, "offers saved", nil)
}

// GetOfferItems lists every offer item of a distribution.
func GetOfferItems(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cursor, err := db.OfferItemsCollection.Find(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch offers")
		return
	}
	items := []models.OfferItem{}
	if err := cursor.All(r.Context(), &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch offers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}
