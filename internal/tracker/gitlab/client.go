package gitlab

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

// Client is a thin HTTP client for the GitLab v4 REST API. Requests
// authenticate with the Private-Token header; failures surface as
// BackendError without retry.
type Client struct {
	token      string
	httpClient *http.Client
}

// NewClient creates a GitLab HTTP client from a personal access token.
func NewClient(token string) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs a GET expecting 200 and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, result any) error {
	_, err := c.do(ctx, http.MethodGet, rawURL, query, nil, result, http.StatusOK)
	return err
}

// GetPaged performs a GET expecting 200 and returns the rel="next" URL
// from the Link header, empty when the last page was reached.
func (c *Client) GetPaged(ctx context.Context, rawURL string, query url.Values, result any) (string, error) {
	header, err := c.do(ctx, http.MethodGet, rawURL, query, nil, result, http.StatusOK)
	if err != nil {
		return "", err
	}
	return nextLink(header), nil
}

// Post performs a POST with a JSON body expecting 201.
func (c *Client) Post(ctx context.Context, rawURL string, body, result any) error {
	_, err := c.do(ctx, http.MethodPost, rawURL, nil, body, result, http.StatusCreated)
	return err
}

// Put performs a PUT with a JSON body expecting 200.
func (c *Client) Put(ctx context.Context, rawURL string, body, result any) error {
	_, err := c.do(ctx, http.MethodPut, rawURL, nil, body, result, http.StatusOK)
	return err
}

func (c *Client) do(
	ctx context.Context,
	method string,
	rawURL string,
	query url.Values,
	body any,
	result any,
	want int,
) (http.Header, error) {
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
			return nil, tracker.Backendf("marshaling request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, tracker.Backendf("creating request: %v", err)
	}

	req.Header.Set("Private-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, tracker.Backendf("%s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tracker.Backendf("reading response body: %v", err)
	}

	if resp.StatusCode != want {
		return nil, tracker.StatusError(resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, tracker.Backendf("unmarshaling response from %s %s: %v", method, rawURL, err)
		}
	}

	return resp.Header, nil
}

// nextLink extracts the rel="next" URL from a Link response header.
func nextLink(header http.Header) string {
	for _, link := range header.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			segments := strings.Split(part, ";")
			if len(segments) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
			for _, param := range segments[1:] {
				if strings.TrimSpace(param) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}
