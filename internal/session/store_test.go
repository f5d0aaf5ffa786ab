package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestToken_ValidAndExpired(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())

	_, err := s.Token()
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	valid := mintToken(t, time.Now().Add(time.Hour))
	s.Set(valid, Profile{Name: "Admin", Role: "admin"})
	got, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	s.Set(mintToken(t, time.Now().Add(-time.Second)), Profile{Name: "Admin"})
	_, err = s.Token()
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestToken_Malformed(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
	s.Set("not-a-jwt", Profile{Name: "Admin"})

	_, err := s.Token()
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPersistence_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := mintToken(t, time.Now().Add(time.Hour))

	first := NewStore(path, zap.NewNop())
	first.Set(token, Profile{ID: "u1", Name: "Admin", Email: "a@b.c", Role: "superadmin"})

	second := NewStore(path, zap.NewNop())
	got, err := second.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)

	user, signedIn := second.User()
	require.True(t, signedIn)
	assert.Equal(t, "Admin", user.Name)
	assert.True(t, user.IsAdmin())
}

func TestClear_RemovesBothHalves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path, zap.NewNop())
	s.Set(mintToken(t, time.Now().Add(time.Hour)), Profile{Name: "Admin"})

	s.Clear()
	_, err := s.Token()
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	_, signedIn := s.User()
	assert.False(t, signedIn)

	// The cleared state is also what lands on disk.
	reloaded := NewStore(path, zap.NewNop())
	_, signedIn = reloaded.User()
	assert.False(t, signedIn)
}

func TestCorruptSessionFileStartsSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	s := NewStore(path, zap.NewNop())
	_, signedIn := s.User()
	assert.False(t, signedIn)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Profile{Role: "admin"}.IsAdmin())
	assert.True(t, Profile{Role: "superadmin"}.IsAdmin())
	assert.False(t, Profile{Role: "agent"}.IsAdmin())
	assert.False(t, Profile{}.IsAdmin())
}
