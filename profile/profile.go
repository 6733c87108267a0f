package profile

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"brouette/db"
	"brouette/models"
	"brouette/utils"
)

// GetProfile returns the caller's account.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	var member models.Member
	err := db.MembersCollection.FindOne(r.Context(), bson.M{"memberId": memberID}).Decode(&member)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

// UpdateProfile edits the caller's name and phone.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	var patch struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
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

	_, err := db.MembersCollection.UpdateOne(r.Context(),
		bson.M{"memberId": memberID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "profile updated", nil)
}

// ChangePassword verifies the current password before replacing it.
func ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(input.NewPassword) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	var member models.Member
	err := db.MembersCollection.FindOne(r.Context(), bson.M{"memberId": memberID}).Decode(&member)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(input.CurrentPassword)); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "current password is wrong")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	_, err = db.MembersCollection.UpdateOne(r.Context(),
		bson.M{"memberId": memberID},
		bson.M{"$set": bson.M{"password": string(hashed), "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "password changed", nil)
}
