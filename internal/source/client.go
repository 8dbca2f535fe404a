package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "news-aggregator/1.0"
	maxErrorBody   = 512
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON issues a GET to endpoint with params and decodes the JSON body into out.
// Every failure is reported as a FetchFailedError for the named source.
func getJSON(ctx context.Context, client *http.Client, name, endpoint string, params map[string]string, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return apperr.NewFetchFailed(name, fmt.Errorf("invalid endpoint: %w", err))
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apperr.NewFetchFailed(name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := client.Do(req)
	if err != nil {
		return apperr.NewFetchFailed(name, fmt.Errorf("network error: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return apperr.NewFetchFailed(name, fmt.Errorf("unexpected status %d: %s", res.StatusCode, body))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return apperr.NewFetchFailed(name, fmt.Errorf("malformed payload: %w", err))
	}
	return nil
}
