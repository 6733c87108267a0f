package producers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// CreateProducer registers a producer of the association.
func CreateProducer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var producer models.Producer
	if err := json.NewDecoder(r.Body).Decode(&producer); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if producer.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	producer.ProducerID = utils.GenerateID("farm", 10)
	producer.CreatedAt = time.Now()
	producer.UpdatedAt = producer.CreatedAt
	if producer.CoopStatus == "" {
		producer.CoopStatus = "active"
	}

	if _, err := db.ProducersCollection.InsertOne(r.Context(), producer); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create producer")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, producer)
}

// GetProducers lists producers, optionally only the active ones.
func GetProducers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("active") == "true" {
		filter["coopStatus"] = "active"
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := db.ProducersCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}
	producers := []models.Producer{}
	if err := cursor.All(r.Context(), &producers); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list producers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, producers)
}

// GetProducer returns one producer.
func GetProducer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var producer models.Producer
	err := db.ProducersCollection.FindOne(r.Context(),
		bson.M{"producerId": ps.ByName("producerId")}).Decode(&producer)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "producer not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch producer")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, producer)
}

// UpdateProducer edits a producer's sheet.
func UpdateProducer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var producer models.Producer
	if err := json.NewDecoder(r.Body).Decode(&producer); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if producer.Name != "" {
		set["name"] = producer.Name
	}
	if producer.Email != "" {
		set["email"] = producer.Email
	}
	if producer.Phone != "" {
		set["phone"] = producer.Phone
	}
	if producer.Address != "" {
		set["address"] = producer.Address
	}
	if producer.CoopStatus != "" {
		set["coopStatus"] = producer.CoopStatus
	}
	if producer.Notes != "" {
		set["notes"] = producer.Notes
	}

	res, err := db.ProducersCollection.UpdateOne(r.Context(),
		bson.M{"producerId": ps.ByName("producerId")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update producer")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "producer not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "producer updated", nil)
}

// DeleteProducer removes a producer without products. Producers with
// a catalogue must have it emptied first.
func DeleteProducer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	producerID := ps.ByName("producerId")

	count, err := db.ProductsCollection.CountDocuments(r.Context(), bson.M{"producerId": producerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete producer")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "producer still has products")
		return
	}

	res, err := db.ProducersCollection.DeleteOne(r.Context(), bson.M{"producerId": producerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete producer")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "producer not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "producer deleted", nil)
}
