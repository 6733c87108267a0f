package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brouette/middleware"
	"brouette/models"
)

func TestRolesFor(t *testing.T) {
	admin := models.Member{Auth: models.MemberAuth{Role: "admin"}}
	assert.Equal(t, []string{"admin", "member"}, rolesFor(admin))

	member := models.Member{Auth: models.MemberAuth{Role: "member"}}
	assert.Equal(t, []string{"member"}, rolesFor(member))

	unknown := models.Member{}
	assert.Equal(t, []string{"member"}, rolesFor(unknown))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	member := models.Member{
		MemberID: "m_test1",
		Name:     "Jeanne",
		Auth:     models.MemberAuth{Role: "admin"},
	}
	token, err := generateAccessToken(member)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := middleware.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "m_test1", claims.UserID)
	assert.Equal(t, "Jeanne", claims.Username)
	assert.Contains(t, claims.Role, "admin")
}

func TestRefreshTokenHashing(t *testing.T) {
	tok, err := generateRefreshToken()
	assert.NoError(t, err)
	assert.Len(t, tok, 64)

	other, _ := generateRefreshToken()
	assert.NotEqual(t, tok, other)

	// Hashing is stable and never stores the raw token.
	assert.Equal(t, hashToken(tok), hashToken(tok))
	assert.NotEqual(t, tok, hashToken(tok))
}
