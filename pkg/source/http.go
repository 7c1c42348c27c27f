package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

const maxDescriptorBytes = 1 << 20

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithHTTPClient injects a custom client (timeouts, proxies, auth transport).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithRequestTimeout caps each request.
func WithRequestTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.timeout = timeout
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Set(key, value)
	}
}

// HTTP fetches descriptors from `GET {base}/{id}`. A 404 maps to
// descriptor.ErrNotFound. `GET {base}` is expected to return a manifest
// `{"templates": [metadata...]}` for List.
type HTTP struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
	headers http.Header
}

var (
	_ descriptor.Source = (*HTTP)(nil)
	_ descriptor.Lister = (*HTTP)(nil)
)

// NewHTTP validates baseURL and builds the source.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("source: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("source: base url %q must be http or https", baseURL)
	}
	h := &HTTP{
		base:    base,
		client:  http.DefaultClient,
		timeout: 10 * time.Second,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Fetch implements descriptor.Source.
func (h *HTTP) Fetch(ctx context.Context, id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("source: http: empty id: %w", descriptor.ErrNotFound)
	}
	// Ids name a single path segment under the base URL.
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("source: http: invalid id %q: %w", id, descriptor.ErrNotFound)
	}
	target := h.base.JoinPath(id)
	data, status, err := h.get(ctx, target.String())
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("source: http %q: %w", id, descriptor.ErrNotFound)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("source: http %q: unexpected status %d", id, status)
	}
	return data, nil
}

type manifest struct {
	Templates []descriptor.Metadata `json:"templates"`
}

// List implements descriptor.Lister.
func (h *HTTP) List(ctx context.Context) ([]descriptor.Metadata, error) {
	data, status, err := h.get(ctx, h.base.String())
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("source: http manifest: unexpected status %d", status)
	}
	var out manifest
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("source: http manifest: %w", err)
	}
	return out.Templates, nil
}

func (h *HTTP) get(ctx context.Context, target string) ([]byte, int, error) {
	reqCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("source: http request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	for key, values := range h.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("source: http get %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("source: http read %s: %w", target, err)
	}
	if len(data) > maxDescriptorBytes {
		return nil, resp.StatusCode, errors.New("source: http response exceeds 1MiB")
	}
	return data, resp.StatusCode, nil
}
