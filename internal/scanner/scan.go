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

package scanner

import (
	"context"
	"fmt"

	"github.com/Chocapikk/wpaudit/internal/analyze"
	"github.com/Chocapikk/wpaudit/internal/collector"
	"github.com/Chocapikk/wpaudit/internal/detect"
	wphttp "github.com/Chocapikk/wpaudit/internal/http"
	"github.com/Chocapikk/wpaudit/internal/logger"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/registry"
	"github.com/Chocapikk/wpaudit/internal/target"
)

// Scanner runs the audit pipeline for one target at a time. It is safe for
// concurrent use; the registry memo is shared by every scan it runs.
type Scanner struct {
	opts     ScanOptions
	guard    *target.Guard
	registry registry.Registry
	perSite  int
}

// NewScanner wires the guard, the resolver and the registry client from opts.
func NewScanner(opts ScanOptions) *Scanner {
	var resolver target.Resolver
	if opts.Resolver != "" {
		resolver = target.NewDNSResolver(opts.Resolver, opts.Timeout)
	}
	guard := target.NewGuard(opts.AllowPrivate, resolver)
	if opts.Timeout > 0 {
		guard.DialTimeout = opts.Timeout
	}

	s := &Scanner{opts: opts, guard: guard, perSite: opts.Threads}
	if opts.CheckLatest && opts.RegistryURL != "" {
		// The registry is operator-configured, so its client is not
		// bound to a scan target's guard.
		client := wphttp.NewHTTPClient(wphttp.Config{
			Timeout:      opts.Timeout,
			UserAgent:    opts.UserAgent,
			MaxRedirects: opts.MaxRedirects,
		})
		s.registry = registry.NewCached(registry.NewWordPressOrg(opts.RegistryURL, client))
	}
	return s
}

// Scan validates input, collects evidence, detects components and checks
// them against the registry. A guard rejection is returned as a
// *target.SecurityError before any request is sent.
func (s *Scanner) Scan(ctx context.Context, input string) (model.AuditReport, error) {
	t, err := s.guard.Validate(ctx, input)
	if err != nil {
		return model.AuditReport{}, err
	}

	client := wphttp.NewHTTPClient(wphttp.Config{
		Timeout:      s.opts.Timeout,
		Headers:      s.opts.Headers,
		UserAgent:    s.opts.UserAgent,
		RateLimit:    s.opts.RateLimit,
		MaxRedirects: s.opts.MaxRedirects,
		MaxBodySize:  s.opts.MaxBodyBytes,
		DialContext:  s.guard.DialContext(t),
	})

	set, err := collector.New(client, s.opts.Timeout).Collect(ctx, t)
	if err != nil {
		return model.AuditReport{}, fmt.Errorf("scan %s: %w", t, err)
	}
	for _, perr := range set.Errors() {
		logger.DefaultLogger.Debug(perr.Error())
	}

	findings := detect.Detect(set)
	for _, sig := range detect.FiredSignals(set) {
		logger.DefaultLogger.Debug(fmt.Sprintf("%s: signal %s on %s %s", t, sig.Name, sig.Probe, sig.Version))
	}

	a := analyze.New(s.registry)
	if s.perSite > 0 {
		a.Concurrency = s.perSite
	}
	report := a.Analyze(ctx, t.URL(), findings)
	if err := ctx.Err(); err != nil {
		return model.AuditReport{}, fmt.Errorf("scan %s: %w", t, err)
	}
	return report, nil
}
