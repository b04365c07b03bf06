package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		secure bool
		ttl    time.Duration
		maxAge int
	}{
		{name: "default session in production", secure: true, ttl: time.Hour, maxAge: 3600},
		{name: "remembered session in development", secure: false, ttl: 7 * 24 * time.Hour, maxAge: 604800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			NewCookie("", tt.secure).SetSession(c, "tok", tt.ttl)

			cookies := (&http.Response{Header: w.Header()}).Cookies()
			require.Len(t, cookies, 1)
			ck := cookies[0]
			assert.Equal(t, SessionCookie, ck.Name)
			assert.Equal(t, "tok", ck.Value)
			assert.Equal(t, "/", ck.Path)
			assert.Equal(t, tt.maxAge, ck.MaxAge)
			assert.True(t, ck.HttpOnly)
			assert.Equal(t, tt.secure, ck.Secure)
			assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
		})
	}
}

func TestManager_Clear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NewCookie("", false).Clear(c)

	cookies := (&http.Response{Header: w.Header()}).Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", SessionToken(c))

	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"})
	assert.Equal(t, "abc", SessionToken(c))
}
