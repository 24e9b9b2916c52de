package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/common"
	"github.com/dmitrijs2005/bankcli/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// HTTPClient is a JSON client for the bank API. The zero value is not usable;
// create one with NewHTTPClient.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	headers      http.Header
	interceptors []Interceptor
	logger       logging.Logger
	requestID    func() string
}

// NewHTTPClient creates a client for baseURL, e.g. "http://localhost:8080/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		headers:   http.Header{},
		logger:    logging.Nop(),
		requestID: uuid.NewString,
	}
	c.headers.Set(common.ContentTypeHeaderName, common.JSONContentType)
	c.headers.Set(common.AcceptHeaderName, common.JSONContentType)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// WithInterceptors returns a client that runs interceptors, in order, around
// every call. The receiver is left untouched and both share one *http.Client.
func (c *HTTPClient) WithInterceptors(interceptors ...Interceptor) *HTTPClient {
	derived := *c
	derived.headers = c.headers.Clone()
	derived.interceptors = append(append([]Interceptor(nil), c.interceptors...), interceptors...)
	return &derived
}

// Request performs method on path and returns the raw JSON body of a 2xx
// response. An empty body yields a nil message.
func (c *HTTPClient) Request(ctx context.Context, method, path string, body any, header http.Header) (json.RawMessage, error) {
	call := newCall(method, path, body, header)
	return chain(c.send, c.interceptors)(ctx, call)
}

func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Request(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw json.RawMessage, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send is the innermost invoker: one HTTP exchange.
func (c *HTTPClient) send(ctx context.Context, call *Call) (json.RawMessage, error) {
	var reader io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.baseURL+call.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	for k, v := range call.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	reqID := c.requestID()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		c.logger.Debug(ctx, "request failed", "method", call.Method, "path", call.Path, "request_id", reqID, "error", err.Error())
		return nil, connectionFailed(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, connectionFailed(err)
	}

	c.logger.Debug(ctx, "request done",
		"method", call.Method,
		"path", call.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"retried", call.Retried,
		"duration", time.Since(started).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newTransportError(resp.StatusCode, data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}

func newTransportError(status int, body []byte) *TransportError {
	te := &TransportError{StatusCode: status, Message: http.StatusText(status)}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return te
	}
	te.Details = json.RawMessage(body)

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		te.Message = msg.Message
	}
	return te
}
