package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type versionMap map[int64]int

func (v versionMap) SessionVersion(userID int64) (int, bool) {
	ver, ok := v[userID]
	return ver, ok
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	access, refresh, err := GeneratePair(7, "a@b.c", "USER", 2, testSecret)
	require.NoError(t, err)

	p, err := ParseToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, KindAccess, p.Kind)
	assert.Equal(t, 2, p.Version)

	p, err = ParseToken(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, p.Kind)

	_, err = ParseToken(access, "other-secret")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	access, refresh, err := GeneratePair(7, "a@b.c", "USER", 1, testSecret)
	require.NoError(t, err)

	var seen *Payload
	h := RequireAuth(testSecret, versionMap{7: 1})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPayloadFromContext(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.UserID)
}

func TestRequireAuth_RevokedVersion(t *testing.T) {
	access, _, err := GeneratePair(7, "a@b.c", "USER", 1, testSecret)
	require.NoError(t, err)

	h := RequireAuth(testSecret, versionMap{7: 2})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
