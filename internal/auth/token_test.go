package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyadi/absensi/internal/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewTokenStore(path)

	require.NoError(t, store.Save("tok-abc"))
	assert.Equal(t, "tok-abc", store.Token())

	// A fresh store reads the same file.
	assert.Equal(t, "tok-abc", NewTokenStore(path).Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenEmptyWhenFileMissing(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, "", store.Token())

	_, err := store.User()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewTokenStore(path)
	require.NoError(t, store.Save("tok"))

	require.NoError(t, store.Clear())
	assert.Equal(t, "", store.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDecodeUserReadsClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"userId":   float64(12),
		"userName": "Sari",
		"userRole": "spg",
	})

	user, err := DecodeUser(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), user.ID)
	assert.Equal(t, "Sari", user.Name)
	assert.Equal(t, domain.RoleSpg, user.Role)
}

func TestDecodeUserRejectsGarbage(t *testing.T) {
	_, err := DecodeUser("not-a-jwt")
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, store.Save(signedToken(t, jwt.MapClaims{
		"userId": float64(1),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})))

	expired, err := store.Expired(time.Now())
	require.NoError(t, err)
	assert.True(t, expired)

	require.NoError(t, store.Save(signedToken(t, jwt.MapClaims{
		"userId": float64(1),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})))

	expired, err = store.Expired(time.Now())
	require.NoError(t, err)
	assert.False(t, expired)
}
