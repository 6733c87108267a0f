package documents

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

// CreateDocument records a shared document's metadata.
func CreateDocument(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if doc.Title == "" || doc.URL == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title and url are required")
		return
	}

	doc.DocumentID = utils.GenerateID("doc", 10)
	doc.CreatedAt = time.Now()

	if _, err := db.DocumentsCollection.InsertOne(r.Context(), doc); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create document")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

// GetDocuments lists shared documents, newest first.
func GetDocuments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.DocumentsCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	docs := []models.Document{}
	if err := cursor.All(r.Context(), &docs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, docs)
}

// DeleteDocument removes a document's metadata.
func DeleteDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.DocumentsCollection.DeleteOne(r.Context(),
		bson.M{"documentId": ps.ByName("documentId")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "document not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "document deleted", nil)
}
