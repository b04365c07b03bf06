package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/testutil/memstore"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidInput, http.StatusBadRequest},
		{application.ErrNotFound, http.StatusNotFound},
		{application.ErrConflict, http.StatusConflict},
		{application.ErrUnauthorized, http.StatusUnauthorized},
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrForbidden, http.StatusForbidden},
		{application.ErrInvalidCode, http.StatusBadRequest},
		{application.ErrExpired, http.StatusBadRequest},
		{application.ErrNoOtpPending, http.StatusBadRequest},
		{application.ErrAlreadyVerified, http.StatusBadRequest},
		{application.ErrEmailDelivery, http.StatusBadGateway},
		{application.ErrInternal, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(application.KindOf(tt.err)), tt.err.Error())
	}
}

func TestFail_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, nil, &application.Error{Kind: application.KindInternal, Message: "insert account", Err: errors.New("connection refused")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestFail_UsesServiceMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, nil, &application.Error{Kind: application.KindInvalidCode, Message: "Invalid verification code"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid verification code", body["message"])
}

func TestTagList(t *testing.T) {
	var req publishCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":["go","web"]}`), &req))
	assert.Equal(t, tagList{"go", "web"}, req.Tags)

	require.NoError(t, json.Unmarshal([]byte(`{"tags":"go, web ,"}`), &req))
	assert.Equal(t, []string{"go", "web"}, application.CleanTags(req.Tags))

	assert.Error(t, json.Unmarshal([]byte(`{"tags":12}`), &req))
}

func TestHealth(t *testing.T) {
	checks := map[string]func(context.Context) error{
		"mongo": func(context.Context) error { return nil },
	}
	r := gin.New()
	r.GET("/healthz", NewHealthHandler(checks).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["data"].(map[string]any)["mongo"])

	checks["redis"] = func(context.Context) error { return errors.New("dial tcp: refused") }
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "dial tcp: refused", decode(t, w)["error"].(map[string]any)["redis"])
}

func TestAuditor_RecordsRequestContext(t *testing.T) {
	store := &memstore.Audit{}
	a := NewAuditor(store, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	c.Request.Header.Set("User-Agent", "curl/8")
	c.Request.RemoteAddr = "203.0.113.9:5555"

	a.Record(c, "acc-1", "ada@example.com", "login", map[string]any{"remember": true})

	require.Len(t, store.Entries, 1)
	e := store.Entries[0]
	assert.Equal(t, "acc-1", e.AccountID)
	assert.Equal(t, "login", e.Action)
	assert.Equal(t, "curl/8", e.UserAgent)
	assert.Equal(t, "203.0.113.9", e.IP)
	assert.Equal(t, true, e.Metadata["remember"])

	var nilAuditor *Auditor
	assert.NotPanics(t, func() { nilAuditor.Record(c, "", "", "login", nil) })
}
