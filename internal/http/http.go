// Copyright (c) 2025 Valentin Lobstein (Chocapikk) <balgogan@protonmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/corpix/uarand"
)

var ErrTooManyRedirects = errors.New("stopped after max redirects")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "non-success status code: " + e.Status
}

// Response is a fully read, size-capped HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Truncated  bool
	Cookies    []string // names only
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type HTTPClientManager struct {
	client        *http.Client
	userAgent     string
	parsedHeaders map[string]string
	hasCustomUA   bool
	rateLimiter   *RateLimiter
	maxBodySize   int64
}

func NewHTTPClient(cfg Config) *HTTPClientManager {
	cfg = cfg.withDefaults()

	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		DisableKeepAlives:   true,
		TLSHandshakeTimeout: cfg.Timeout,
		Proxy:               nil,
	}
	if cfg.DialContext != nil {
		transport.DialContext = cfg.DialContext
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	maxRedirects := cfg.MaxRedirects
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if maxRedirects == 0 {
			return http.ErrUseLastResponse
		}
		if len(via) >= maxRedirects {
			return ErrTooManyRedirects
		}
		if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
			return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
		}
		return nil
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = uarand.GetRandom()
	}

	mgr := &HTTPClientManager{
		client:      client,
		userAgent:   userAgent,
		rateLimiter: NewRateLimiter(cfg.RateLimit),
		maxBodySize: cfg.MaxBodySize,
	}
	mgr.parsedHeaders, mgr.hasCustomUA = parseHeaders(cfg.Headers)
	return mgr
}

func parseHeaders(raw []string) (map[string]string, bool) {
	headers := make(map[string]string)
	hasUA := false

	for _, hdr := range raw {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if strings.EqualFold(key, "User-Agent") {
			hasUA = true
			key = "User-Agent"
		}
		headers[key] = value
	}

	return headers, hasUA
}

func (h *HTTPClientManager) applyHeaders(req *http.Request) {
	if h.hasCustomUA {
		req.Header.Set("User-Agent", h.parsedHeaders["User-Agent"])
	} else if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	for key, value := range h.parsedHeaders {
		if key != "User-Agent" {
			req.Header.Add(key, value)
		}
	}
}

func (h *HTTPClientManager) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	if err := h.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	h.applyHeaders(req)
	return req, nil
}

func (h *HTTPClientManager) doRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return resp, nil
}

// Fetch performs a GET and reads at most the configured body size. Non-2xx
// responses are returned without error; callers decide what they mean.
func (h *HTTPClientManager) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := h.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	resp, err := h.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodySize+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if int64(len(data)) > h.maxBodySize {
		out.Body = data[:h.maxBodySize]
		out.Truncated = true
	}
	out.Cookies = cookieNames(resp)
	return out, nil
}

// cookieNames collects Set-Cookie names from resp and every redirect
// response that led to it, earliest first, without duplicates.
func cookieNames(resp *http.Response) []string {
	var chain []*http.Response
	for r := resp; r != nil; {
		chain = append(chain, r)
		if r.Request == nil {
			break
		}
		r = r.Request.Response
	}

	var names []string
	seen := make(map[string]struct{})
	for i := len(chain) - 1; i >= 0; i-- {
		for _, c := range chain[i].Cookies() {
			if _, dup := seen[c.Name]; dup {
				continue
			}
			seen[c.Name] = struct{}{}
			names = append(names, c.Name)
		}
	}
	return names
}

// GetJSON decodes a 2xx JSON response into v. Non-2xx responses yield a
// *StatusError.
func (h *HTTPClientManager) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := h.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &StatusError{Code: resp.StatusCode, Status: statusText(resp.StatusCode)}
	}
	if resp.Truncated {
		return fmt.Errorf("response from %s exceeds %d bytes", url, h.maxBodySize)
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func statusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
