package messages

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

// CreateMessage posts an announcement or note for members.
func CreateMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var msg models.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg.Body == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "body is required")
		return
	}
	if msg.Kind == "" {
		msg.Kind = "note"
	}

	msg.MessageID = utils.GenerateID("m", 12)
	msg.AuthorID = utils.GetUserIDFromRequest(r)
	msg.CreatedAt = time.Now()

	if _, err := db.MessagesCollection.InsertOne(r.Context(), msg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create message")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

// GetMessages lists messages, newest first, optionally of one kind.
func GetMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := db.MessagesCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	msgs := []models.Message{}
	if err := cursor.All(r.Context(), &msgs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, msgs)
}

// DeleteMessage removes one message.
func DeleteMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.MessagesCollection.DeleteOne(r.Context(),
		bson.M{"messageId": ps.ByName("messageId")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "message not found")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "message deleted", nil)
}
