package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
)

func TestTokenIssuer_SignAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 1)

	user := &model.User{ID: "user-1", Role: model.RoleAdmin}
	tok, err := issuer.Sign(user)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenIssuer_Parse_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", 1)
	other := NewTokenIssuer("secret-b", 1)

	tok, err := issuer.Sign(&model.User{ID: "user-1", Role: model.RoleUser})
	require.NoError(t, err)

	claims, err := other.Parse(tok)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenIssuer_Parse_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", 1)

	claims, err := issuer.Parse("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}
