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

package collector

import (
	"context"
	"sync"
	"time"

	"github.com/Chocapikk/wpaudit/internal/http"
	"github.com/Chocapikk/wpaudit/internal/target"
)

const DefaultProbeTimeout = 10 * time.Second

// Fetcher is the transport used by probes. *http.HTTPClientManager
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*http.Response, error)
}

// Collector gathers evidence from the fixed set of well-known paths.
type Collector struct {
	client  Fetcher
	timeout time.Duration
}

// New returns a Collector. A zero timeout means DefaultProbeTimeout.
func New(client Fetcher, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Collector{client: client, timeout: timeout}
}

// Collect runs every probe concurrently. Individual probe failures are
// recorded on their Evidence; the only error returned is ctx's, in which
// case no evidence is returned.
func (c *Collector) Collect(ctx context.Context, t *target.Target) (EvidenceSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := t.URL()
	set := make(EvidenceSet, len(probes))

	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			set[i] = c.run(ctx, p, base+p.path)
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

func (c *Collector) run(parent context.Context, p probe, url string) Evidence {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	ev := Evidence{Probe: p.id, URL: url}

	resp, err := c.client.Fetch(ctx, url)
	if err != nil {
		ev.Err = &ProbeError{Probe: p.id, URL: url, Err: err}
		return ev
	}

	ev.Status = resp.StatusCode
	ev.Header = resp.Header
	ev.Cookies = resp.Cookies
	if !resp.OK() {
		ev.Err = &ProbeError{Probe: p.id, URL: url, Status: resp.StatusCode}
		return ev
	}
	ev.Body = resp.Body
	ev.Truncated = resp.Truncated
	return ev
}
