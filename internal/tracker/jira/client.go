package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Client is a thin HTTP client for the JIRA v2 REST API. Requests
// authenticate with basic auth from the configured "user:password"
// credential pair; failures surface as BackendError without retry.
type Client struct {
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a JIRA HTTP client.
func NewClient(token string) *Client {
	username, password, _ := strings.Cut(token, ":")
	return &Client{
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs a GET expecting 200 and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, rawURL, query, nil, result, http.StatusOK)
}

// Post performs a POST with a JSON body expecting 201.
func (c *Client) Post(ctx context.Context, rawURL string, body, result any) error {
	return c.do(ctx, http.MethodPost, rawURL, nil, body, result, http.StatusCreated)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	rawURL string,
	query url.Values,
	body any,
	result any,
	want int,
) error {
	if len(query) > 0 {
		separator := "?"
		if strings.Contains(rawURL, "?") {
			separator = "&"
		}
		rawURL += separator + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return tracker.Backendf("marshaling request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return tracker.Backendf("creating request: %v", err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tracker.Backendf("%s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return tracker.Backendf("reading response body: %v", err)
	}

	if resp.StatusCode != want {
		return tracker.StatusError(resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return tracker.Backendf("unmarshaling response from %s %s: %v", method, rawURL, err)
		}
	}

	return nil
}
