package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchClientOptions configures the client behind the student search index.
type SearchClientOptions struct {
	Addrs          []string
	Username       string
	Password       string
	MaxRetries     int
	RequestTimeout time.Duration
}

func searchClientConfig(o SearchClientOptions) elasticsearch.Config {
	timeout := o.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return elasticsearch.Config{
		Addresses:     o.Addrs,
		Username:      o.Username,
		Password:      o.Password,
		MaxRetries:    o.MaxRetries,
		DisableRetry:  o.MaxRetries <= 0,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		RetryBackoff:  func(attempt int) time.Duration { return time.Duration(attempt) * 100 * time.Millisecond },
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: timeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		},
	}
}

// NewSearchClient builds the Elasticsearch client used for student search.
// Indexing is best effort, so retries stay few and short.
func NewSearchClient(o SearchClientOptions) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(searchClientConfig(o))
}
