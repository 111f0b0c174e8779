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

package target

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Target is a validated scan target. It can only be obtained from
// Guard.Validate and never changes afterwards.
type Target struct {
	scheme string
	host   string
	port   string
	addrs  []netip.Addr
}

func (t *Target) Scheme() string { return t.scheme }
func (t *Target) Host() string   { return t.host }
func (t *Target) Port() string   { return t.port }

// Addrs returns the pinned address set.
func (t *Target) Addrs() []netip.Addr {
	out := make([]netip.Addr, len(t.addrs))
	copy(out, t.addrs)
	return out
}

// URL returns the base URL without a trailing slash.
func (t *Target) URL() string {
	host := t.host
	if t.port != "" {
		host = net.JoinHostPort(t.host, t.port)
	} else if strings.Contains(t.host, ":") {
		host = "[" + t.host + "]"
	}
	return t.scheme + "://" + host
}

func (t *Target) String() string { return t.URL() }

// Guard enforces the SSRF policy for scan targets and for every connection
// made on their behalf.
type Guard struct {
	AllowPrivate bool
	Resolver     Resolver
	DialTimeout  time.Duration
}

// NewGuard returns a Guard using resolver, or the system resolver when nil.
func NewGuard(allowPrivate bool, resolver Resolver) *Guard {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Guard{AllowPrivate: allowPrivate, Resolver: resolver, DialTimeout: 10 * time.Second}
}

// Validate parses input, resolves its host and applies the address policy.
// A host is rejected as a whole if any of its addresses is blocked.
func (g *Guard) Validate(ctx context.Context, input string) (*Target, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, reject(ErrInvalidTarget, input, "empty target")
	}

	u, err := parseInput(raw)
	if err != nil {
		var se *SecurityError
		if errors.As(err, &se) {
			se.Input = input
			return nil, se
		}
		return nil, reject(ErrInvalidTarget, input, err.Error())
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return nil, reject(ErrInvalidTarget, input, "missing host")
	}
	port := u.Port()
	if port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return nil, reject(ErrInvalidTarget, input, "invalid port "+port)
		}
	}

	if !g.AllowPrivate && IsLocalhostName(host) {
		return nil, reject(ErrBlockedAddress, input, host)
	}

	addrs, err := g.resolve(ctx, host)
	if err != nil {
		return nil, reject(ErrResolutionFailed, input, err.Error())
	}
	if err := g.check(addrs); err != nil {
		return nil, reject(ErrBlockedAddress, input, err.Error())
	}

	return &Target{scheme: strings.ToLower(u.Scheme), host: host, port: port, addrs: addrs}, nil
}

// DialContext returns a dialer for t. Connections to t's host only go to the
// pinned addresses; any other host (after a redirect) is resolved and checked
// against the policy first. The chosen IP is checked again right before the
// socket connects.
func (g *Guard) DialContext(t *Target) func(ctx context.Context, network, address string) (net.Conn, error) {
	timeout := g.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second, Control: g.control}

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		host = strings.ToLower(strings.TrimSuffix(host, "."))

		var candidates []netip.Addr
		if host == t.host {
			candidates = t.Addrs()
		} else {
			if !g.AllowPrivate && IsLocalhostName(host) {
				return nil, reject(ErrBlockedAddress, address, host)
			}
			candidates, err = g.resolve(ctx, host)
			if err != nil {
				return nil, reject(ErrResolutionFailed, address, err.Error())
			}
			if err := g.check(candidates); err != nil {
				return nil, reject(ErrBlockedAddress, address, err.Error())
			}
		}

		var lastErr error
		for _, a := range candidates {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(a.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				break
			}
		}
		return nil, lastErr
	}
}

func (g *Guard) control(_, address string, _ syscall.RawConn) error {
	if g.AllowPrivate {
		return nil
	}
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return reject(ErrBlockedAddress, address, "unparseable dial address")
	}
	if IsBlocked(ap.Addr()) {
		return reject(ErrBlockedAddress, address, ap.Addr().String())
	}
	return nil
}

func (g *Guard) resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if a, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{a.Unmap().WithZone("")}, nil
	}

	resolver := g.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	found, err := resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}

	seen := make(map[netip.Addr]struct{}, len(found))
	addrs := make([]netip.Addr, 0, len(found))
	for _, a := range found {
		a = a.Unmap().WithZone("")
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		addrs = append(addrs, a)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}
	return addrs, nil
}

func (g *Guard) check(addrs []netip.Addr) error {
	if g.AllowPrivate {
		return nil
	}
	for _, a := range addrs {
		if IsBlocked(a) {
			return fmt.Errorf("%s is in a blocked range", a)
		}
	}
	return nil
}

// parseInput accepts full URLs and bare host[:port] forms. Without a scheme
// the default is https, or http when a port is given.
func parseInput(raw string) (*url.URL, error) {
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme := strings.ToLower(raw[:i])
		if scheme != "http" && scheme != "https" {
			return nil, reject(ErrInvalidScheme, raw, scheme)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		u.Scheme = scheme
		return u, nil
	}

	if a, err := netip.ParseAddr(raw); err == nil && a.Is6() {
		raw = "[" + raw + "]"
	}
	u, err := url.Parse("//" + raw)
	if err != nil {
		return nil, err
	}
	u.Scheme = "https"
	if u.Port() != "" {
		u.Scheme = "http"
	}
	return u, nil
}
