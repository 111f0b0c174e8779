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

package registry

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Chocapikk/wpaudit/internal/model"
)

type result struct {
	version string
	err     error
}

// Cached memoises lookups of an underlying Registry for its lifetime.
// Concurrent lookups of the same component share a single request.
// Cancellation errors are not cached.
type Cached struct {
	next  Registry
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]result
}

// NewCached wraps next.
func NewCached(next Registry) *Cached {
	return &Cached{next: next, entries: make(map[string]result)}
}

func (c *Cached) Latest(ctx context.Context, kind model.Kind, slug string) (string, error) {
	key := kind.String() + "/" + slug

	c.mu.RLock()
	r, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return r.version, r.err
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		ver, err := c.next.Latest(ctx, kind, slug)
		if ctx.Err() == nil {
			c.mu.Lock()
			c.entries[key] = result{version: ver, err: err}
			c.mu.Unlock()
		}
		return ver, err
	})
	ver, _ := v.(string)
	return ver, err
}

// Len reports the number of memoised entries.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
