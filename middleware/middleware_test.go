package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/utils"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := UserID(r.Context())
	w.Write([]byte(id))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	h := Auth(tokens)(http.HandlerFunc(echoUser))

	good, err := tokens.GenerateJWT("user-1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, ""},
		{"valid", "Bearer " + good, http.StatusOK, "user-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rr.Body.String())
				return
			}
			body := decodeError(t, rr)
			assert.False(t, body.Success)
			assert.Equal(t, "UNAUTHORIZED", body.Code)
		})
	}
}

type adminSet map[string]bool

func (a adminSet) IsAdmin(_ context.Context, id string) (bool, error) { return a[id], nil }

func TestAdminOnly(t *testing.T) {
	h := AdminOnly(adminSet{"boss": true})(http.HandlerFunc(echoUser))

	for _, tc := range []struct {
		user   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"someone", http.StatusForbidden},
		{"boss", http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodDelete, "/api/properties/x", nil)
		if tc.user != "" {
			req = req.WithContext(WithUserID(req.Context(), tc.user))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, tc.status, rr.Code, tc.user)
	}
}

func TestObserve_RequestID(t *testing.T) {
	var seen string
	h := Observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "Internal server error", body.Message)
}
