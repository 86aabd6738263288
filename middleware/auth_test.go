package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfteamapp/golfteam-system/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	var gotUserID int
	var gotRoles []models.UserRole

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotUserID, err = GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotRoles, err = GetUserRolesFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticate(testSecret)(next)

	t.Run("valid token passes claims through", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"user_id": 7,
			"roles":   []string{"coach", "partner"},
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 7, gotUserID)
		assert.Equal(t, []models.UserRole{models.RoleCoach, models.RolePartner}, gotRoles)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"user_id": 7,
			"roles":   []string{"coach"},
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthorize(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Authenticate(testSecret)(Authorize(models.RoleAdmin, models.RoleCoach)(next))

	request := func(roles []string) *httptest.ResponseRecorder {
		token := signedToken(t, jwt.MapClaims{
			"user_id": 7,
			"roles":   roles,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, request([]string{"coach"}).Code)
	assert.Equal(t, http.StatusOK, request([]string{"athlete", "admin"}).Code)
	assert.Equal(t, http.StatusForbidden, request([]string{"partner"}).Code)
	assert.Equal(t, http.StatusForbidden, request([]string{}).Code)
}

// A token for a freshly registered identity carries no roles; it must still
// authenticate so the holder can self-register a profile.
func TestAuthenticateRolelessToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roles, err := GetUserRolesFromContext(r.Context())
		require.NoError(t, err)
		assert.Empty(t, roles)
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticate(testSecret)(next)

	token := signedToken(t, jwt.MapClaims{
		"user_id": 7,
		"roles":   []string{},
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
