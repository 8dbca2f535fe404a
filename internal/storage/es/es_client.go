package es

import (
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const maxRetries = 3

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// newClient builds a typed client that retries throttled and unavailable responses.
func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, fmt.Errorf("no Elasticsearch addresses configured")
	}
	if config.IndexName == "" {
		return nil, fmt.Errorf("no Elasticsearch index configured")
	}

	cfg := elasticsearch.Config{
		Addresses:     config.Addresses,
		MaxRetries:    maxRetries,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
