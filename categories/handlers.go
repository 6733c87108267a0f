package categories

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// CreateCategory adds a catalogue category.
func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if category.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	category.CategoryID = utils.GenerateID("cat", 8)
	if _, err := db.CategoriesCollection.InsertOne(r.Context(), category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// GetCategories lists every category.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := db.CategoriesCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	categories := []models.Category{}
	if err := cursor.All(r.Context(), &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// UpdateCategory renames a category.
func UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	set := bson.M{}
	if category.Name != "" {
		set["name"] = category.Name
	}
	if category.Description != "" {
		set["description"] = category.Description
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	res, err := db.CategoriesCollection.UpdateOne(r.Context(),
		bson.M{"categoryId": ps.ByName("categoryId")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "category updated", nil)
}

// DeleteCategory removes an unused category.
func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	categoryID := ps.ByName("categoryId")

	count, err := db.ProductsCollection.CountDocuments(r.Context(), bson.M{"categoryId": categoryID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "category still has products")
		return
	}

	res, err := db.CategoriesCollection.DeleteOne(r.Context(), bson.M{"categoryId": categoryID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "category deleted", nil)
}
