package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/pkg/database"
)

func testAuth() *Authenticator {
	return New(config.AuthConfig{
		JWTSecret:       "jwt-secret",
		APIMasterSecret: "master-secret",
		AdminUsername:   "admin",
		AdminPassword:   "pw",
		TokenTTLHours:   1,
	}, nil)
}

func TestTokenRoundTrip(t *testing.T) {
	a := testAuth()
	tok, err := a.CreateToken("alice")
	require.NoError(t, err)

	claims, err := a.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	other := New(config.AuthConfig{JWTSecret: "different", TokenTTLHours: 1}, nil)
	_, err = other.VerifyToken(tok)
	assert.Error(t, err)
}

func TestHMACKey(t *testing.T) {
	a := testAuth()
	key := a.GenerateHMACKey("team-a")

	id, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "team-a", id)

	for _, bad := range []string{"team-a", "team-a.deadbeef", key + "x", ".abc", "a.b.c"} {
		_, err := a.VerifyHMACKey(bad)
		assert.ErrorIs(t, err, ErrInvalidAPIKey, bad)
	}
}

func TestPasswordHash(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("pw", hash))
	assert.False(t, CheckPasswordHash("nope", hash))
}

func TestEnsureAdminExists(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "keys.db")})
	require.NoError(t, err)

	a := testAuth()
	require.NoError(t, a.EnsureAdminExists(db))
	require.NoError(t, a.EnsureAdminExists(db))

	var users []database.MasterUser
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, CheckPasswordHash("pw", users[0].PasswordHash))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "tea...cdef", Preview("team.0123456789abcdef"))
	assert.Equal(t, "****", Preview("short"))
}
