package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateTestToken creates a signed access token in the shape the identity
// provider issues
func CreateTestToken(t *testing.T, identity, email string, secret []byte) string {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", secret, nil)

	claims := map[string]interface{}{
		"sub":   identity,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	_, tokenString, err := tokenAuth.Encode(claims)
	require.NoError(t, err)
	return tokenString
}

func TestAuthAccountMiddleware(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	tokenAuth := jwtauth.New("HS256", secret, nil)

	var captured *AuthAccount
	handler := Verifier(tokenAuth)(AuthAccountMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuthAccount(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	token := CreateTestToken(t, "id-1", "owner@shop.test", secret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "id-1", captured.Identity)
	assert.Equal(t, "owner@shop.test", captured.Email)
}

func TestAuthAccountMiddlewareFromCookie(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	tokenAuth := jwtauth.New("HS256", secret, nil)

	var captured *AuthAccount
	handler := Verifier(tokenAuth)(AuthAccountMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuthAccount(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	token := CreateTestToken(t, "id-2", "", secret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ACCESS_TOKEN_NAME, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "id-2", captured.Identity)
}

func TestAuthAccountMiddlewareRejectsMissingToken(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	tokenAuth := jwtauth.New("HS256", secret, nil)

	handler := Verifier(tokenAuth)(AuthAccountMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAccountMiddlewareRejectsBadSignature(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	tokenAuth := jwtauth.New("HS256", secret, nil)

	handler := Verifier(tokenAuth)(AuthAccountMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	token := CreateTestToken(t, "id-1", "", []byte("some-other-secret"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
