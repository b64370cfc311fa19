package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

func testTokens() user.Tokens {
	return user.Tokens{Access: "access-1", Refresh: "refresh-1"}
}

func TestStoreStartsUnauthenticated(t *testing.T) {
	store := NewStore(NewMemoryPersistence(), logging.Silent())

	snapshot := store.Snapshot()
	assert.False(t, snapshot.Authenticated)
	assert.Empty(t, snapshot.AccessToken)
	assert.Nil(t, snapshot.User)
}

func TestStoreHydratesFromPersistence(t *testing.T) {
	persistence := NewMemoryPersistence()
	tokens := testTokens()
	require.NoError(t, persistence.SaveTokens(&tokens))
	require.NoError(t, persistence.SaveIdentity(&user.Identity{
		ID: 7, Username: "ada", Role: user.RoleCustomer,
	}))

	store := NewStore(persistence, logging.Silent())

	snapshot := store.Snapshot()
	assert.True(t, snapshot.Authenticated)
	assert.Equal(t, "access-1", snapshot.AccessToken)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "ada", snapshot.User.Username)
}

func TestSetSessionPersists(t *testing.T) {
	persistence := NewMemoryPersistence()
	store := NewStore(persistence, logging.Silent())

	store.SetSession(testTokens(), nil)

	assert.True(t, store.Snapshot().Authenticated)
	saved, err := persistence.LoadTokens()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "refresh-1", saved.Refresh)
}

func TestRotateAccessTokenKeepsRefreshToken(t *testing.T) {
	store := NewStore(NewMemoryPersistence(), logging.Silent())
	store.SetSession(testTokens(), nil)

	store.RotateAccessToken("access-2")

	snapshot := store.Snapshot()
	assert.Equal(t, "access-2", snapshot.AccessToken)
	assert.Equal(t, "refresh-1", snapshot.RefreshToken)
	assert.True(t, snapshot.Authenticated)
}

func TestClearSessionWipesPersistence(t *testing.T) {
	persistence := NewMemoryPersistence()
	store := NewStore(persistence, logging.Silent())
	store.SetSession(testTokens(), &user.Identity{ID: 1, Username: "ada"})

	store.ClearSession()

	assert.False(t, store.Snapshot().Authenticated)
	tokens, err := persistence.LoadTokens()
	require.NoError(t, err)
	assert.Nil(t, tokens)
}

func TestExpireFiresHandlersOncePerExpiry(t *testing.T) {
	store := NewStore(NewMemoryPersistence(), logging.Silent())
	store.SetSession(testTokens(), nil)

	fired := 0
	store.OnSessionExpired(func() { fired++ })

	store.Expire()
	store.Expire()
	assert.Equal(t, 1, fired, "second expiry of a dead session must not re-fire")
	assert.False(t, store.Snapshot().Authenticated)

	// A new login arms the expiry again.
	store.SetSession(testTokens(), nil)
	store.Expire()
	assert.Equal(t, 2, fired)
}

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(42),
		"username": "ada",
		"role":     "vendor",
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := DecodeClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, user.RoleVendor, claims.Role)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeClaimsRejectsGarbage(t *testing.T) {
	_, err := DecodeClaims("not-a-jwt")
	assert.Error(t, err)
}
