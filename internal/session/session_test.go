package session

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/storage"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// failingStorage fails every write
type failingStorage struct {
	*storage.Memory
}

func (f failingStorage) Set(key, value string) error {
	return errors.New("disk full")
}

func TestOpen_EmptyStorage(t *testing.T) {
	store, err := Open(storage.NewMemory())
	require.NoError(t, err)

	s := store.Session()
	assert.Empty(t, s.AccessToken)
	assert.Empty(t, s.RefreshToken)
	assert.Nil(t, s.User)
	assert.False(t, store.IsAuthenticated())
}

func TestOpen_RestoresPersistedTokens(t *testing.T) {
	st := storage.NewMemory()
	access := mint(t, jwt.MapClaims{"uid": "u-1", "email": "a@example.com", "roles": []string{"admin"}})
	require.NoError(t, st.Set(storage.AccessTokenKey, access))
	require.NoError(t, st.Set(storage.RefreshTokenKey, "refresh-1"))

	store, err := Open(st)
	require.NoError(t, err)

	s := store.Session()
	assert.Equal(t, access, s.AccessToken)
	assert.Equal(t, "refresh-1", s.RefreshToken)
	require.NotNil(t, s.User)
	assert.Equal(t, "u-1", s.User.ID)
	assert.True(t, store.HasRole("admin"))
}

func TestSetTokens_RoundTrip(t *testing.T) {
	st := storage.NewMemory()
	store, err := Open(st)
	require.NoError(t, err)

	access := mint(t, jwt.MapClaims{"sub": "u-2", "role": "user"})
	require.NoError(t, store.SetTokens(access, "r"))

	value, ok, err := st.Get(storage.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, access, value)

	value, ok, err = st.Get(storage.RefreshTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "r", value)

	require.NoError(t, store.SetTokens("", ""))
	_, ok, _ = st.Get(storage.AccessTokenKey)
	assert.False(t, ok)
	_, ok, _ = st.Get(storage.RefreshTokenKey)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}

func TestSetTokens_Idempotent(t *testing.T) {
	st := storage.NewMemory()
	store, err := Open(st)
	require.NoError(t, err)

	access := mint(t, jwt.MapClaims{"sub": "u-3", "roles": []string{"USER"}})
	require.NoError(t, store.SetTokens(access, "r"))
	first := store.Session()

	require.NoError(t, store.SetTokens(access, "r"))
	second := store.Session()

	assert.Equal(t, first, second)
	assert.Equal(t, 2, st.Len())
}

func TestSetTokens_RecomputesUser(t *testing.T) {
	store, err := Open(storage.NewMemory())
	require.NoError(t, err)

	require.NoError(t, store.SetTokens(mint(t, jwt.MapClaims{"sub": "first", "role": "user"}), ""))
	assert.Equal(t, "first", store.User().ID)
	assert.False(t, store.HasRole("ADMIN"))

	require.NoError(t, store.SetTokens(mint(t, jwt.MapClaims{"sub": "second", "role": "admin"}), ""))
	assert.Equal(t, "second", store.User().ID)
	assert.True(t, store.HasRole("ADMIN"))

	// A malformed token is still a session, but without a user
	require.NoError(t, store.SetTokens("not-a-jwt", ""))
	assert.True(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
}

func TestSetTokens_ClearsOnlyRefresh(t *testing.T) {
	st := storage.NewMemory()
	store, err := Open(st)
	require.NoError(t, err)

	require.NoError(t, store.SetTokens("a.b.c", "r"))
	require.NoError(t, store.SetTokens("a.b.c", ""))

	_, ok, _ := st.Get(storage.RefreshTokenKey)
	assert.False(t, ok)
	_, ok, _ = st.Get(storage.AccessTokenKey)
	assert.True(t, ok)
}

func TestSetTokens_PersistFailureKeepsMemoryState(t *testing.T) {
	store, err := Open(failingStorage{storage.NewMemory()})
	require.NoError(t, err)

	access := mint(t, jwt.MapClaims{"sub": "u-4"})
	err = store.SetTokens(access, "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, access, store.AccessToken())
	assert.Equal(t, "u-4", store.User().ID)
}

func TestLogout(t *testing.T) {
	st := storage.NewMemory()
	store, err := Open(st)
	require.NoError(t, err)

	require.NoError(t, store.SetTokens(mint(t, jwt.MapClaims{"sub": "u-5", "role": "admin"}), "r"))
	require.NoError(t, store.Logout())

	s := store.Session()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.RefreshToken)
	assert.Nil(t, s.User)
	assert.Nil(t, s.Roles())
	assert.Equal(t, 0, st.Len())

	// Fresh store sees the logged-out state
	reopened, err := Open(st)
	require.NoError(t, err)
	assert.False(t, reopened.IsAuthenticated())
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	store, err := Open(storage.NewMemory())
	require.NoError(t, err)
	require.NoError(t, store.SetTokens(mint(t, jwt.MapClaims{"roles": []string{"user"}}), ""))

	s := store.Session()
	s.User.Roles[0] = "ADMIN"

	assert.False(t, store.HasRole("ADMIN"))
}
