// Package api is a thin HTTP client for the website's REST backend. It
// handles Bearer token attachment, JSON and multipart encoding, and
// normalizes non-2xx responses into a typed error carrying the HTTP
// status and the decoded body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitotech/contact-admin/internal/session"
)

// Client is the HTTP client shared by the auth and notification services.
// The session store is consulted on every request; the client itself
// never caches the token.
type Client struct {
	baseURL    string
	session    session.Store
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. The session
// store supplies the Bearer token for authenticated requests.
func NewClient(baseURL string, sess session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs a JSON request. The Bearer token is attached when one is
// present in the session store; entries in headers override the defaults.
// A non-2xx response is returned as *Error; network failures propagate
// as plain errors. No retries are performed at this layer.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
	headers http.Header,
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}

	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return c.send(req, method, path, result)
}

// DoAuthed performs an admin-only JSON request: the Bearer token is
// attached when present, and the JSON content-type only when a body is.
func (c *Client) DoAuthed(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var headers http.Header
	if body != nil {
		headers = http.Header{}
		headers.Set("Content-Type", "application/json")
	}
	return c.Do(ctx, method, path, body, result, headers)
}

// DoForm performs a public multipart request. No Authorization header is
// ever attached, so anonymous form submissions neither leak the admin
// identity nor depend on a token being present. The Content-Type is left
// to the multipart encoding so the boundary is correct.
func (c *Client) DoForm(
	ctx context.Context,
	method string,
	path string,
	form *Form,
	result interface{},
) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("encoding form body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.send(req, method, path, result)
}

// newRequest builds a request for path, which may be an absolute URL or
// relative to the configured base URL, and stamps a request ID for
// backend log correlation.
func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	body io.Reader,
) (*http.Request, error) {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// send executes the request and decodes the response. The body is read
// as text and JSON-decoded when parseable; on a non-2xx status the
// decoded body travels in the returned *Error.
func (c *Client) send(
	req *http.Request,
	method string,
	path string,
	result interface{},
) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Status: resp.StatusCode,
			Body:   decodeBody(respBody),
		}
	}

	if result == nil || len(respBody) == 0 ||
		resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// decodeBody attempts JSON decoding and keeps the raw text on failure.
func decodeBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return data
}
