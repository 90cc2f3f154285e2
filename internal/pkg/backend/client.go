package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
	maxProofBytes  = 20 << 20
)

// ErrUnauthorized is matched by any APIError carrying 401 or 403.
var ErrUnauthorized = errors.New("backend rejected credentials")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend http error: status=%d detail=%s", e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// TransportError means the request never produced a response.
type TransportError struct {
	Kind string // timeout | network | request
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the booking backend.
type Client struct {
	baseURL string
	ua      string
	http    *http.Client
}

// NewClient creates a backend client.
func NewClient(baseURL string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) send(ctx context.Context, rq request) (*http.Response, error) {
	if c == nil || c.http == nil {
		return nil, &TransportError{Kind: "request", Err: errors.New("client is nil")}
	}
	if c.baseURL == "" {
		return nil, &TransportError{Kind: "request", Err: errors.New("base_url is empty")}
	}

	req, err := http.NewRequestWithContext(ctx, rq.method, c.baseURL+rq.path, rq.body)
	if err != nil {
		return nil, &TransportError{Kind: "request", Err: err}
	}
	if rq.contentType != "" {
		req.Header.Set("Content-Type", rq.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if rq.token != "" {
		req.Header.Set("Authorization", "Bearer "+rq.token)
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp, nil
}

// do sends a JSON request and decodes the JSON answer into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	rq := request{method: method, path: path, token: token}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Kind: "request", Err: err}
		}
		rq.body = bytes.NewReader(payload)
		rq.contentType = "application/json"
	}

	resp, err := c.send(ctx, rq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend decode %s %s: %w", method, path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("<failed to read body: %v>", err)}
	}
	return &APIError{Status: resp.StatusCode, Detail: extractDetail(resp.StatusCode, body)}
}

// extractDetail prefers the JSON "detail" (or "message") field and falls
// back to the raw body text.
func extractDetail(status int, body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if len(payload.Detail) > 0 {
			var s string
			if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
				return s
			}
			// validation errors come as [{"msg": ...}, ...]
			var items []struct {
				Msg string `json:"msg"`
			}
			if json.Unmarshal(payload.Detail, &items) == nil {
				msgs := make([]string, 0, len(items))
				for _, it := range items {
					if it.Msg != "" {
						msgs = append(msgs, it.Msg)
					}
				}
				if len(msgs) > 0 {
					return strings.Join(msgs, "; ")
				}
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return &TransportError{Kind: "timeout", Err: err}
	}
	if isNetworkError(err) {
		return &TransportError{Kind: "network", Err: err}
	}
	return &TransportError{Kind: "request", Err: err}
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
