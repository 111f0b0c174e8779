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

// Package wpaudit provides a public API for auditing WordPress sites for
// outdated core, themes and plugins.
package wpaudit

import (
	"context"
	"fmt"
	"time"

	"github.com/Chocapikk/wpaudit/internal/config"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/scanner"
)

// Config holds configuration for an Auditor. Zero values use the defaults.
type Config struct {
	// Allow targets resolving to loopback, private or link-local addresses
	AllowPrivate bool

	// Per-request timeout (default: 10s)
	Timeout time.Duration

	// Concurrent registry lookups per audit (default: 10)
	Threads int

	// Requests per second against the target (0 = unlimited)
	RateLimit int

	// Custom HTTP headers (format: "Header: Value")
	Headers []string

	// User-Agent for probes (default: random browser UA)
	UserAgent string

	// Maximum number of redirects to follow (0 = default: 10, -1 = disable)
	MaxRedirects int

	// Maximum bytes read per probe response (default: 1 MiB)
	MaxBodyBytes int64

	// DNS server used instead of the system resolver (e.g. "1.1.1.1:53")
	Resolver string

	// Base URL of the WordPress.org-compatible registry API
	RegistryURL string

	// Skip latest-version lookups; every component is reported as unknown
	NoCheckLatest bool
}

// Component is one audited core, theme or plugin.
type Component struct {
	// "core", "theme", "plugin" or "mu-plugin"
	Type string

	// Plugin or theme slug, "WordPress" for core
	Name string

	// Detected version, empty when none was found
	Version string

	// Latest published version, empty when the lookup failed
	Latest string

	// "ok", "outdated" or "unknown"
	Status string
}

// Report is the result of one audit.
type Report struct {
	Target            string
	WordPressDetected bool
	OutdatedCount     int
	Components        []Component
}

// Auditor audits WordPress sites. It is safe for concurrent use and
// remembers registry answers for its lifetime.
type Auditor struct {
	scanner *scanner.Scanner
}

// New validates cfg and creates an Auditor.
func New(cfg Config) (*Auditor, error) {
	c := config.Defaults()
	c.AllowPrivate = cfg.AllowPrivate
	c.CheckLatest = !cfg.NoCheckLatest
	c.Headers = cfg.Headers
	c.UserAgent = cfg.UserAgent
	c.Resolver = cfg.Resolver
	c.RateLimit = cfg.RateLimit
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.Threads > 0 {
		c.Threads = cfg.Threads
	}
	switch {
	case cfg.MaxRedirects > 0:
		c.MaxRedirects = cfg.MaxRedirects
	case cfg.MaxRedirects < 0:
		c.MaxRedirects = 0
	}
	if cfg.MaxBodyBytes > 0 {
		c.MaxBodyBytes = cfg.MaxBodyBytes
	}
	if cfg.RegistryURL != "" {
		c.RegistryURL = cfg.RegistryURL
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Auditor{scanner: scanner.NewScanner(scanner.ScanOptions{Config: c})}, nil
}

// Audit scans target. Targets rejected by the address policy return an
// error before any request is sent.
func (a *Auditor) Audit(ctx context.Context, target string) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := a.scanner.Scan(ctx, target)
	if err != nil {
		return nil, err
	}
	return fromModel(r), nil
}

func fromModel(r model.AuditReport) *Report {
	out := &Report{
		Target:            r.Target,
		WordPressDetected: r.WordPressDetected,
		OutdatedCount:     r.OutdatedCount,
		Components:        make([]Component, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		out.Components = append(out.Components, Component{
			Type:    it.Kind.String(),
			Name:    it.Name,
			Version: it.Version,
			Latest:  it.Latest,
			Status:  it.Status.String(),
		})
	}
	return out
}
