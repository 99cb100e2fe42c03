// Package remote talks to the upload server: it lists and fetches the images
// and tells the server which image to put on the public display.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drummonds/gokiosk/internal/presentation"
)

const DefaultTimeout = 10 * time.Second

// NetworkError is a transport level failure: the request never got an HTTP
// response.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a response outside the 2xx range.
type HTTPStatusError struct {
	Op         string
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient
// gets one with DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: u, http: httpClient}, nil
}

func (c *Client) endpoint(elem ...string) string {
	return c.base.JoinPath(elem...).String()
}

type uploadsResponse struct {
	Uploads []string `json:"uploads"`
}

// ListImages returns the identifiers in the order the server reports them.
func (c *Client) ListImages(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("uploads"))
	if err != nil {
		return nil, err
	}
	var resp uploadsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding upload list: %w", err)
	}
	return resp.Uploads, nil
}

func (c *Client) FetchImage(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.endpoint("uploads", id))
}

// NotifySelected asks the server to show id on the public display.
func (c *Client) NotifySelected(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, c.endpoint("manual_show", id))
	return err
}

func (c *Client) do(ctx context.Context, method, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method, URL: u, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &HTTPStatusError{Op: method, URL: u, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: method, URL: u, Err: err}
	}
	return body, nil
}

// DisplaySink delivers selection changes to the server's manual_show
// endpoint.
type DisplaySink struct {
	Client *Client
}

func (s DisplaySink) Name() string { return "display " + s.Client.base.Host }

func (s DisplaySink) Deliver(ctx context.Context, ev presentation.SelectionChanged) error {
	return s.Client.NotifySelected(ctx, ev.Identifier)
}
