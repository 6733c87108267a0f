package settings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// GetSettings returns every association setting as a flat map.
func GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.SettingsCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	var all []models.Setting
	if err := cursor.All(r.Context(), &all); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}

	out := utils.M{}
	for _, s := range all {
		out[s.Key] = s.Value
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// UpdateSettings upserts the given keys.
func UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input map[string]string
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(input) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	now := time.Now()
	for key, value := range input {
		_, err := db.SettingsCollection.UpdateOne(r.Context(),
			bson.M{"key": key},
			bson.M{"$set": bson.M{"key": key, "value": value, "updatedAt": now}},
			options.Update().SetUpsert(true))
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to update settings")
			return
		}
	}
	utils.SendResponse(w, http.StatusOK, nil, "settings updated", nil)
}
