package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// TokenSource yields the token to attach to each request and is told when
// the backend rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	SignOut(ctx context.Context)
}

// Observer records upstream call timings.
type Observer interface {
	ObserveUpstream(method, endpoint string, status int, duration time.Duration)
}

// Config configures the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	AuthHeader string
}

// FilePart is one file of a multipart request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Client talks to the burial-permit backend on behalf of the signed-in operator.
type Client struct {
	http       *http.Client
	baseURL    string
	authHeader string
	tokens     TokenSource
	observer   Observer
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver attaches an upstream metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Client.
func New(cfg Config, tokens TokenSource, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = "x-auth-token"
	}
	c := &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: cfg.AuthHeader,
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root, used to build attachment links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE; body may be nil. The bulk permit delete carries its
// ids in the body.
func (c *Client) Delete(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodDelete, path, body, out)
}

// PostMultipart sends fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields [][2]string, files []FilePart, out interface{}) error {
	return c.doMultipart(ctx, http.MethodPost, path, fields, files, out)
}

// PutMultipart sends fields and files as multipart/form-data.
func (c *Client) PutMultipart(ctx context.Context, path string, fields [][2]string, files []FilePart, out interface{}) error {
	return c.doMultipart(ctx, http.MethodPut, path, fields, files, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	if body == nil {
		return c.do(ctx, method, path, nil, "", nil, out)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, method, path, nil, "application/json", payload, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields [][2]string, files []FilePart, out interface{}) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("write form field %s: %w", kv[0], err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create form file %s: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("write form file %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}
	return c.do(ctx, method, path, nil, w.FormDataContentType(), buf.Bytes(), out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(c.authHeader, token)
	}
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(requestid.HeaderKey, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("backend unreachable", zap.String("method", method), zap.String("path", path), zap.String("request_id", reqID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("backend rejected token, signing out", zap.String("path", path), zap.String("request_id", reqID))
		c.tokens.SignOut(ctx)
		return appErrors.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return appErrors.FromResponse(resp.StatusCode, raw, "")
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected backend response")
	}
	return nil
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(method, endpointLabel(path), status, d)
}

// endpointLabel collapses id segments so metrics stay low-cardinality.
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if i >= 2 && p != "" && !isRouteWord(p) {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isRouteWord(s string) bool {
	switch s {
	case "overview", "recent-permits", "monthly-trends", "me":
		return true
	}
	return false
}
