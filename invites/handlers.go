package invites

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// baseURL is set at startup and used to build shareable signup links.
var baseURL = "http://localhost:8080"

// SetBaseURL configures the public origin invite links point at.
func SetBaseURL(origin string) {
	if origin != "" {
		baseURL = strings.TrimRight(origin, "/")
	}
}

// SignupLink is the URL an admin hands to the invited person.
func SignupLink(token string) string {
	return baseURL + "/signup?invite=" + token
}

type createRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateInvite mints a single-use signup token. An email binds the
// invite to that address; the role decides what the account becomes.
func CreateInvite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	role := req.Role
	if role == "" {
		role = "member"
	}
	if role != "member" && role != "admin" {
		utils.RespondWithError(w, http.StatusBadRequest, "role must be member or admin")
		return
	}

	invite := models.Invite{
		InviteID:  utils.GenerateID("inv", 10),
		Token:     utils.GenerateRandomString(24),
		Email:     strings.ToLower(req.Email),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if _, err := db.InvitesCollection.InsertOne(r.Context(), invite); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create invite")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"invite": invite,
		"link":   SignupLink(invite.Token),
	})
}

// ListInvites shows every invite, newest first.
func ListInvites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.InvitesCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}
	invites := []models.Invite{}
	if err := cursor.All(r.Context(), &invites); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, invites)
}

// RevokeInvite deletes an invite that has not been used yet.
func RevokeInvite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.InvitesCollection.DeleteOne(r.Context(),
		bson.M{"inviteId": ps.ByName("inviteId"), "used": false})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to revoke invite")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "invite not found or already used")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "invite revoked", nil)
}

// CheckInvite tells the signup form whether a token is still usable,
// and which email it is bound to.
func CheckInvite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var invite models.Invite
	err := db.InvitesCollection.FindOne(r.Context(),
		bson.M{"token": ps.ByName("token")}).Decode(&invite)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "unknown invite")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check invite")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid": !invite.Used,
		"email": invite.Email,
		"role":  invite.Role,
	})
}
