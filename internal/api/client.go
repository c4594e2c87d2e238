package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIRoot  = "/api"
	requestIDHeader = "X-Request-ID"
)

// TokenSource yields the credential attached to authenticated requests.
// An empty string means no credential is stored.
type TokenSource interface {
	Token() string
}

// Options configures a Client
type Options struct {
	ServerURL string
	APIRoot   string

	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration

	// RateLimit is the maximum number of requests per second. Zero disables limiting.
	RateLimit float64
	RateBurst int

	Tokens     TokenSource
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client is the HTTP client for the library catalog API
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new API client
func NewClient(opts Options) *Client {
	root := opts.APIRoot
	if root == "" {
		root = DefaultAPIRoot
	}
	root = "/" + strings.Trim(root, "/")
	if root == "/" {
		root = ""
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.ServerURL, "/") + root,
		tokens:     opts.Tokens,
		httpClient: httpClient,
		logger:     logger,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions carries the method and JSON body of an authenticated request
type RequestOptions struct {
	Method string
	Body   any
}

// Request issues a GET for path and decodes the JSON body into out.
// Any non-2xx status fails with a *RequestError carrying the status line.
func (c *Client) Request(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		text := statusText(resp)
		return &RequestError{
			Method:     http.MethodGet,
			Path:       path,
			Status:     resp.StatusCode,
			StatusText: text,
			Message:    fmt.Sprintf("API error: %d %s", resp.StatusCode, text),
		}
	}

	return decode(resp.Body, path, out)
}

// AuthRequest issues a request with the stored bearer credential attached.
// On a non-2xx status the failure text comes from the body's message or error field.
func (c *Client) AuthRequest(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := c.do(ctx, method, path, opts.Body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return &RequestError{
			Method:     method,
			Path:       path,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Message:    bodyMessage(body, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	return decode(resp.Body, path, out)
}

// do makes an HTTP request to the API
func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &RequestError{Method: method, Path: path, Message: "request cancelled", Err: err}
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"request_id", requestID, "method", method, "path", path, "error", err)
		return nil, &RequestError{
			Method:  method,
			Path:    path,
			Message: fmt.Sprintf("request failed: %v", err),
			Err:     err,
		}
	}

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return resp, nil
}

func decode(r io.Reader, path string, out any) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func successful(code int) bool {
	return code >= 200 && code < 300
}

// statusText returns the reason phrase of the response status line
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// bodyMessage extracts message or error from a JSON error body
func bodyMessage(body []byte, code int) string {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return fmt.Sprintf("HTTP error: %d", code)
}
