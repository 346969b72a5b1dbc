// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estate-admin/internal/common/auth"
	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/common/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "estate-admin/http"

// Client is the only path to the remote API. It attaches the bearer
// credential, decodes JSON bodies and turns failures into StandardErrors.
type Client struct {
	baseURL    string
	userAgent  string
	tokens     auth.TokenSource
	httpClient *http.Client
	logger     logger.Logger
}

type Option func(*Client)

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, timeout time.Duration, tokens auth.TokenSource, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one remote call. Resource names the call for logs,
// metrics and decode errors.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     interface{}
	Resource string
}

// envelope is the remote's error body shape.
type envelope struct {
	Message string `json:"message"`
}

// Send performs req and decodes a 2xx body into out (skipped when out is nil
// or the body is empty).
func (c *Client) Send(ctx context.Context, req Request, out interface{}) error {
	resource := req.Resource
	if resource == "" {
		resource = req.Path
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, req.Method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.path", req.Path),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(resource, req.Method).Observe(time.Since(start).Seconds())
	}()

	err := c.send(ctx, req, resource, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.MessageOf(err, ""))
	}
	return err
}

func (c *Client) send(ctx context.Context, req Request, resource string, out interface{}) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}
	requestID := httpReq.Header.Get("X-Request-ID")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.APIRequests.WithLabelValues(resource, req.Method, metrics.OutcomeTransport).Inc()
		c.logger.Warn("remote call failed", map[string]interface{}{
			"resource":  resource,
			"method":    req.Method,
			"requestId": requestID,
			"error":     err.Error(),
		})
		if isTimeout(ctx, err) {
			return errors.NewTimeoutError(resource, err)
		}
		return errors.NewTransportFailureError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequests.WithLabelValues(resource, req.Method, metrics.OutcomeTransport).Inc()
		return errors.NewTransportFailureError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.APIRequests.WithLabelValues(resource, req.Method, metrics.OutcomeRejected).Inc()
		var env envelope
		_ = json.Unmarshal(body, &env)
		c.logger.Warn("remote rejected call", map[string]interface{}{
			"resource":   resource,
			"method":     req.Method,
			"requestId":  requestID,
			"statusCode": resp.StatusCode,
		})
		return errors.NewRemoteRejectionError(resp.StatusCode, env.Message, string(body))
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			metrics.APIRequests.WithLabelValues(resource, req.Method, metrics.OutcomeDecode).Inc()
			return errors.NewDecodeError(resource, err)
		}
	}

	metrics.APIRequests.WithLabelValues(resource, req.Method, metrics.OutcomeSuccess).Inc()
	c.logger.Debug("remote call completed", map[string]interface{}{
		"resource":   resource,
		"method":     req.Method,
		"requestId":  requestID,
		"statusCode": resp.StatusCode,
	})
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.Path, err)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	return httpReq, nil
}

// Convenience wrappers used by the data-access services.

func (c *Client) Get(ctx context.Context, resource, path string, query url.Values, out interface{}) error {
	return c.Send(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Resource: resource}, out)
}

func (c *Client) Post(ctx context.Context, resource, path string, body, out interface{}) error {
	return c.Send(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Resource: resource}, out)
}

func (c *Client) Put(ctx context.Context, resource, path string, query url.Values, body, out interface{}) error {
	return c.Send(ctx, Request{Method: http.MethodPut, Path: path, Query: query, Body: body, Resource: resource}, out)
}

func (c *Client) Delete(ctx context.Context, resource, path string, query url.Values) error {
	return c.Send(ctx, Request{Method: http.MethodDelete, Path: path, Query: query, Resource: resource}, nil)
}

// isTimeout covers both the caller's deadline and the client's own Timeout.
func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
