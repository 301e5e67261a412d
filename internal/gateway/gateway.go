// Package gateway wraps outbound JSON-over-HTTP calls to the ChatRum backend.
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// userIDHeader carries the caller's identity on identity-bearing requests.
const userIDHeader = "UserId"

// StatusError is a non-2xx backend response. Reason keeps the reason phrase
// so callers can surface it in alerts verbatim.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server response %d: %s", e.Code, e.Reason)
}

// Client is the single outbound HTTP channel to the backend. All request
// headers are built fresh per call; the UserId header never accumulates
// across calls.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
	userID  string
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides address discovery, e.g. "http://192.168.1.10:5000/".
	BaseURL string
	// Host and Port are used when BaseURL is empty; an empty Host falls back
	// to local outbound address discovery.
	Host string
	Port int
	// Timeout is the overall per-request timeout. Zero means 30s.
	Timeout time.Duration
	// InsecureTLS accepts any server certificate. Development only.
	InsecureTLS bool
}

// New creates a backend client. The base address is resolved once here.
func New(opts Options, logger *zap.SugaredLogger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if opts.InsecureTLS {
		// Deliberate development insecurity: the backend runs with a
		// self-signed certificate on the local network.
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		host := opts.Host
		if host == "" {
			host = DiscoverHost()
		}
		port := opts.Port
		if port == 0 {
			port = 5000
		}
		baseURL = fmt.Sprintf("http://%s:%d/", host, port)
	}

	logger.Debugf("gateway base address resolved to %s", baseURL)

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout, Transport: transport},
		logger:  logger,
	}
}

// DiscoverHost returns the primary outbound interface address, the same
// address the development backend binds on. Falls back to loopback.
func DiscoverHost() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// BaseURL reports the resolved base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUser sets the identity attached to subsequent requests.
func (c *Client) SetUser(id string) {
	c.userID = id
}

// UserID reports the identity currently attached to requests.
func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	// Fresh header set per request: content type plus, when a user is
	// resolved, the UserId identity header. Nothing carries over.
	req.Header = http.Header{}
	req.Header.Set("Content-Type", "application/json")
	if c.userID != "" {
		req.Header.Set(userIDHeader, c.userID)
	}

	c.logger.Debugf("gateway %s %s%s", method, c.baseURL, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := http.StatusText(resp.StatusCode)
		if len(respBody) > 0 {
			reason = string(respBody)
		}
		return nil, &StatusError{Code: resp.StatusCode, Reason: reason}
	}

	return respBody, nil
}

// GetJSON performs a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// GetText performs a GET and returns the raw response body.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostJSON performs a POST with a JSON body. When out is non-nil the
// response is decoded into it.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// Post performs a body-less POST (the notification flag endpoints).
func (c *Client) Post(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodPost, path, nil)
	return err
}

// PutJSON performs a PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPut, path, body)
	return err
}

// PatchJSON performs a PATCH with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPatch, path, body)
	return err
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}
