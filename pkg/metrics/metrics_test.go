package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("get", "/api/courses/:id", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/courses/:id", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `academy_http_requests_total{method="GET",path="/api/courses/:id",status="200"} 2`)
	assert.Contains(t, body, `academy_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.Signup()
	m.EmailSent("verification_code", nil)
	m.EmailSent("verification_code", errors.New("down"))
	m.Enrollment("already_enrolled")
	m.Login(nil)

	body := scrape(t, m)
	assert.Contains(t, body, "academy_accounts_signups_total 1")
	assert.Contains(t, body, `academy_mail_emails_total{result="ok",template="verification_code"} 1`)
	assert.Contains(t, body, `academy_mail_emails_total{result="error",template="verification_code"} 1`)
	assert.Contains(t, body, `academy_catalog_enrollments_total{result="already_enrolled"} 1`)
	assert.Contains(t, body, `academy_accounts_logins_total{result="ok"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.InFlight(1)
		m.Signup()
		m.RateLimited("/api/login")
	})
}
