package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"brouette/db"
	"brouette/models"
	"brouette/rdx"
	"brouette/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and hands out an access and refresh token
// pair. Wrong email and wrong password answer identically.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var member models.Member
	err := db.MembersCollection.FindOne(r.Context(),
		bson.M{"email": strings.ToLower(input.Email)}).Decode(&member)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	issueTokens(w, r, member, "login successful")
}

func issueTokens(w http.ResponseWriter, r *http.Request, member models.Member, message string) {
	token, err := generateAccessToken(member)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate refresh token")
		return
	}

	_, err = db.MembersCollection.UpdateOne(r.Context(),
		bson.M{"memberId": member.MemberID},
		bson.M{"$set": bson.M{
			"refreshToken":  hashToken(refreshToken),
			"refreshExpiry": time.Now().Add(refreshTokenTTL),
			"lastLogin":     time.Now(),
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store refresh token")
		return
	}

	if err := rdx.RdxHset(sessionsHash, member.MemberID, token); err != nil {
		log.Warn().Err(err).Msg("session cache write failed")
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"token":        token,
		"refreshToken": refreshToken,
		"memberId":     member.MemberID,
		"name":         member.Name,
		"role":         member.Auth.Role,
	}, message, nil)
}

type signupRequest struct {
	InviteToken string `json:"inviteToken"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
}

// releaseInvite puts a claimed invite back when signup fails after the
// claim, so the token stays usable.
func releaseInvite(r *http.Request, token string) {
	_, err := db.InvitesCollection.UpdateOne(r.Context(),
		bson.M{"token": token},
		bson.M{"$set": bson.M{"used": false}, "$unset": bson.M{"usedAt": "", "usedBy": ""}})
	if err != nil {
		log.Error().Err(err).Msg("failed to release invite")
	}
}

// Signup creates an account from a single-use invite. The invite is
// claimed first with an atomic flip of its used flag, so two signups
// racing on the same token cannot both pass.
func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input signupRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.InviteToken == "" || input.Email == "" || input.Password == "" || input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invite, name, email and password are required")
		return
	}
	if len(input.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	now := time.Now()
	email := strings.ToLower(input.Email)

	var invite models.Invite
	err := db.InvitesCollection.FindOneAndUpdate(r.Context(),
		bson.M{"token": input.InviteToken, "used": false},
		bson.M{"$set": bson.M{"used": true, "usedAt": now, "usedBy": email}},
	).Decode(&invite)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusForbidden, "invalid or already used invite")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check invite")
		return
	}

	// Invites issued for a specific address only work for it.
	if invite.Email != "" && !strings.EqualFold(invite.Email, email) {
		releaseInvite(r, input.InviteToken)
		utils.RespondWithError(w, http.StatusForbidden, "this invite was issued for another email")
		return
	}

	count, err := db.MembersCollection.CountDocuments(r.Context(), bson.M{"email": email})
	if err != nil {
		releaseInvite(r, input.InviteToken)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if count > 0 {
		releaseInvite(r, input.InviteToken)
		utils.RespondWithError(w, http.StatusConflict, "an account already exists for this email")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		releaseInvite(r, input.InviteToken)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	role := "member"
	if invite.Role == "admin" {
		role = "admin"
	}

	member := models.Member{
		MemberID:  utils.GenerateID("m", 12),
		Email:     email,
		Password:  string(hashed),
		Name:      input.Name,
		Phone:     input.Phone,
		Auth:      models.MemberAuth{UID: utils.GetUUID(), Role: role},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.MembersCollection.InsertOne(r.Context(), member); err != nil {
		releaseInvite(r, input.InviteToken)
		log.Error().Err(err).Msg("failed to create member")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	log.Info().Str("memberId", member.MemberID).Str("role", role).Msg("member signed up")
	issueTokens(w, r, member, "account created")
}

type refreshRequest struct {
	MemberID     string `json:"memberId"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken exchanges a valid refresh token for a fresh pair.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var member models.Member
	err := db.MembersCollection.FindOne(r.Context(), bson.M{
		"memberId":      input.MemberID,
		"refreshToken":  hashToken(input.RefreshToken),
		"refreshExpiry": bson.M{"$gt": time.Now()},
	}).Decode(&member)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	issueTokens(w, r, member, "token refreshed")
}

// Logout drops the stored refresh token and the cached session.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}

	_, err := db.MembersCollection.UpdateOne(r.Context(),
		bson.M{"memberId": memberID},
		bson.M{"$unset": bson.M{"refreshToken": "", "refreshExpiry": ""}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	if _, err := rdx.RdxHdel(sessionsHash, memberID); err != nil {
		log.Warn().Err(err).Msg("session cache delete failed")
	}
	utils.SendResponse(w, http.StatusOK, nil, "logged out", nil)
}
