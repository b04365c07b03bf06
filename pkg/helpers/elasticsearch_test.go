package helpers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchClientConfig(t *testing.T) {
	cfg := searchClientConfig(SearchClientOptions{
		Addrs:          []string{"http://es:9200"},
		Username:       "elastic",
		Password:       "secret",
		MaxRetries:     2,
		RequestTimeout: 3 * time.Second,
	})
	assert.Equal(t, []string{"http://es:9200"}, cfg.Addresses)
	assert.Equal(t, "elastic", cfg.Username)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.False(t, cfg.DisableRetry)
	assert.Contains(t, cfg.RetryOnStatus, http.StatusServiceUnavailable)
	assert.Equal(t, 200*time.Millisecond, cfg.RetryBackoff(2))

	tr, ok := cfg.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, tr.ResponseHeaderTimeout)
}

func TestSearchClientConfig_Defaults(t *testing.T) {
	cfg := searchClientConfig(SearchClientOptions{Addrs: []string{"http://es:9200"}})
	assert.True(t, cfg.DisableRetry)
	assert.Equal(t, 5*time.Second, cfg.Transport.(*http.Transport).ResponseHeaderTimeout)
}

func TestNewSearchClient(t *testing.T) {
	c, err := NewSearchClient(SearchClientOptions{Addrs: []string{"http://es:9200"}, MaxRetries: 1})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
