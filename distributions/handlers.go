package distributions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/mq"
	"brouette/utils"
)

type createRequest struct {
	Title string   `json:"title"`
	Dates []string `json:"dates"`
}

// CreateDistribution creates a planned distribution. When no dates are
// given the default three fortnightly Wednesday slots are planned.
func CreateDistribution(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var dates []time.Time
	if len(req.Dates) == 0 {
		dates = PlanDates(time.Now())
	} else {
		for _, key := range req.Dates {
			d, err := DateFromKey(key)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "invalid date: "+key)
				return
			}
			dates = append(dates, d)
		}
	}

	dist := models.Distribution{
		DistributionID: utils.GenerateID("dist", 12),
		Title:          req.Title,
		Status:         models.DistributionPlanned,
		Dates:          dates,
		CreatedAt:      time.Now(),
	}
	if dist.Title == "" {
		dist.Title = "Distribution du " + DateLabel(dates[0])
	}

	if _, err := db.DistributionsCollection.InsertOne(r.Context(), dist); err != nil {
		log.Error().Err(err).Msg("failed to create distribution")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create distribution")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dist)
}

// GetDistributions lists every distribution, most recent first.
func GetDistributions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.DistributionsCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list distributions")
		return
	}
	all := []models.Distribution{}
	if err := cursor.All(r.Context(), &all); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list distributions")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

// GetDistribution returns one distribution by id.
func GetDistribution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var dist models.Distribution
	err := db.DistributionsCollection.FindOne(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")}).Decode(&dist)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distribution")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dist)
}

// UpdateDistribution edits title and dates of a planned distribution.
func UpdateDistribution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if len(req.Dates) > 0 {
		var dates []time.Time
		for _, key := range req.Dates {
			d, err := DateFromKey(key)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "invalid date: "+key)
				return
			}
			dates = append(dates, d)
		}
		set["dates"] = dates
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	res, err := db.DistributionsCollection.UpdateOne(r.Context(),
		bson.M{"distributionId": ps.ByName("distributionId")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update distribution")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "distribution updated", nil)
}

// DeleteDistribution removes a distribution together with its offer
// configuration. Open distributions must be closed first.
func DeleteDistribution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	distributionID := ps.ByName("distributionId")

	var dist models.Distribution
	err := db.DistributionsCollection.FindOne(r.Context(),
		bson.M{"distributionId": distributionID}).Decode(&dist)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distribution")
		return
	}
	if IsOpenStatus(dist.Status) {
		utils.RespondWithError(w, http.StatusConflict, "close the distribution before deleting it")
		return
	}

	ctx := r.Context()
	if _, err := db.OfferItemsCollection.DeleteMany(ctx, bson.M{"distributionId": distributionID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete offer items")
		return
	}
	if _, err := db.DistributionProducersCollection.DeleteMany(ctx, bson.M{"distributionId": distributionID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete distribution producers")
		return
	}
	if _, err := db.DistributionsCollection.DeleteOne(ctx, bson.M{"distributionId": distributionID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete distribution")
		return
	}
	mq.PurgeAnnouncements(ctx, distributionID)
	utils.SendResponse(w, http.StatusOK, nil, "distribution deleted", nil)
}

// OpenDistribution opens a sale.
func OpenDistribution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dist, err := Open(r.Context(), ps.ByName("distributionId"))
	switch err {
	case nil:
		utils.RespondWithJSON(w, http.StatusOK, dist)
	case ErrNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
	case ErrAlreadyOpen:
		utils.RespondWithError(w, http.StatusConflict, "distribution is already open")
	case ErrAlreadyClosed:
		utils.RespondWithError(w, http.StatusConflict, "distribution is already finished")
	default:
		log.Error().Err(err).Msg("failed to open distribution")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to open distribution")
	}
}

// CloseDistribution closes the sale.
func CloseDistribution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dist, err := Close(r.Context(), ps.ByName("distributionId"))
	switch err {
	case nil:
		utils.RespondWithJSON(w, http.StatusOK, dist)
	case ErrNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
	case ErrAlreadyClosed:
		utils.RespondWithError(w, http.StatusConflict, "distribution is already finished")
	case ErrNotOpen:
		utils.RespondWithError(w, http.StatusConflict, "distribution is not open")
	default:
		log.Error().Err(err).Msg("failed to close distribution")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to close distribution")
	}
}

// GetCurrentDistribution returns the sale members can shop in, or 404
// when the shop is closed.
func GetCurrentDistribution(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dist, err := FindOpen(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch current distribution")
		return
	}
	if dist == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no open distribution")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dist)
}

// GetNextDistribution returns the upcoming planned distribution whose
// first date is the soonest in the future, or the earliest planned one
// when none is.
func GetNextDistribution(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.DistributionsCollection.Find(r.Context(),
		bson.M{"status": models.DistributionPlanned})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distributions")
		return
	}
	var all []models.Distribution
	if err := cursor.All(r.Context(), &all); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch distributions")
		return
	}

	next := PickNext(all, time.Now())
	if next == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no upcoming distribution")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, next)
}
