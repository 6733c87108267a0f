package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"brouette/globals"
	"brouette/middleware"
	"brouette/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	// sessionsHash is the redis hash caching the latest access token
	// per member, so logout can invalidate it everywhere.
	sessionsHash = "sessions"
)

// rolesFor expands the stored role into the claim list: admins keep
// their member rights.
func rolesFor(member models.Member) []string {
	if member.Auth.Role == "admin" {
		return []string{"admin", "member"}
	}
	return []string{"member"}
}

func generateAccessToken(member models.Member) (string, error) {
	claims := middleware.Claims{
		Username: member.Name,
		UserID:   member.MemberID,
		Role:     rolesFor(member),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.MemberID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
