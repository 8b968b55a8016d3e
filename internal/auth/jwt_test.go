package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskdev/pettycash-be/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("unit-test-secret")

	token, err := tm.Generate(models.User{ID: "u1", Name: "Alice"})
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").Validate("not.a.token")
	assert.Error(t, err)
}

func protectedEcho(tm *TokenManager) http.Handler {
	return tm.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.UserID))
	}))
}

func TestMiddlewareAcceptsBearerHeader(t *testing.T) {
	tm := NewTokenManager("unit-test-secret")
	token, err := tm.Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedEcho(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestMiddlewareAcceptsCookie(t *testing.T) {
	tm := NewTokenManager("unit-test-secret")
	token, err := tm.Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	protectedEcho(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	tm := NewTokenManager("unit-test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	protectedEcho(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsForgedToken(t *testing.T) {
	tm := NewTokenManager("unit-test-secret")
	forged, err := NewTokenManager("attacker-secret").Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	protectedEcho(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
