package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	a := Admin{Username: "mod", PasswordHash: hash}

	assert.True(t, a.Check("mod", "hunter22"))
	assert.False(t, a.Check("mod", "wrong"))
	assert.False(t, a.Check("other", "hunter22"))
	assert.False(t, Admin{}.Check("", ""))
}

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	tok, err := j.Sign("mod")
	require.NoError(t, err)

	sub, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "mod", sub)

	_, err = NewJWT("other", time.Hour).Verify(tok)
	assert.Error(t, err)
}

func TestJWTRejectsNonAdminAndExpired(t *testing.T) {
	secret := []byte("secret")
	j := NewJWT(string(secret), time.Hour)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "mod", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = j.Verify(noRole)
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "mod", "role": "admin", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = j.Verify(expired)
	assert.Error(t, err)
}

func TestRequireAdmin(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	h := RequireAdmin(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := AdminFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(sub))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())

	tok, err := j.Sign("mod")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "mod", rr.Body.String())
}
