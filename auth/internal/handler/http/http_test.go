package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	return New(func() []byte { return []byte("test-secrets") }, zap.NewNop())
}

func issueToken(t *testing.T, h *Handler, username, password string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/token",
		strings.NewReader(`{"username":"`+username+`","password":"`+password+`"}`))
	w := httptest.NewRecorder()
	h.HandleToken(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func TestTokenIdentityRoundtrip(t *testing.T) {
	h := newTestHandler()
	token := issueToken(t, h, "user_1", "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/identity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.HandleIdentity(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "user_1", body["userId"])
}

func TestIdentityFollowsSubjectNotPassword(t *testing.T) {
	h := newTestHandler()
	first := issueToken(t, h, "user_1", "hunter2")
	second := issueToken(t, h, "user_1", "different-password")

	for _, token := range []string{first, second} {
		req := httptest.NewRequest(http.MethodGet, "/api/identity", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.HandleIdentity(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "user_1", body["userId"])
	}
}

func TestTokenRejectsEmptyCredentials(t *testing.T) {
	h := newTestHandler()

	for _, body := range []string{
		`{"username":"","password":"hunter2"}`,
		`{"username":"user_1","password":""}`,
		`{}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleToken(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestIdentityRejectsGarbageToken(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/identity", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	h.HandleIdentity(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityRejectsForeignSignature(t *testing.T) {
	h := newTestHandler()
	other := New(func() []byte { return []byte("other-secret") }, zap.NewNop())
	token := issueToken(t, other, "user_1", "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/identity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.HandleIdentity(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
