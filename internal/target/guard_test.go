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
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"reflect"
	"testing"
)

type fakeResolver map[string][]netip.Addr

func (f fakeResolver) LookupNetIP(_ context.Context, _, host string) ([]netip.Addr, error) {
	addrs, ok := f[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return addrs, nil
}

func addrs(ss ...string) []netip.Addr {
	out := make([]netip.Addr, 0, len(ss))
	for _, s := range ss {
		out = append(out, netip.MustParseAddr(s))
	}
	return out
}

func testResolver() fakeResolver {
	return fakeResolver{
		"example.com":    addrs("93.184.216.34"),
		"localhost":      addrs("127.0.0.1", "::1"),
		"mixed.test":     addrs("93.184.216.34", "10.0.0.7"),
		"rebind.test":    addrs("169.254.169.254"),
		"dual.test":      addrs("93.184.216.34", "2606:2800:220:1::1", "93.184.216.34"),
		"mapped.test":    addrs("::ffff:127.0.0.1"),
		"empty.test":     {},
		"internal.local": addrs("192.168.1.20"),
	}
}

func TestValidatePolicy(t *testing.T) {
	tests := []struct {
		input        string
		allowPrivate bool
		wantErr      error
	}{
		{"http://169.254.169.254/latest/meta-data", false, ErrBlockedAddress},
		{"127.0.0.1", false, ErrBlockedAddress},
		{"10.0.0.1", false, ErrBlockedAddress},
		{"192.168.1.1", false, ErrBlockedAddress},
		{"172.20.0.1", false, ErrBlockedAddress},
		{"100.64.0.1", false, ErrBlockedAddress},
		{"0.0.0.0", false, ErrBlockedAddress},
		{"::1", false, ErrBlockedAddress},
		{"http://[fe80::1]/", false, ErrBlockedAddress},
		{"http://[fd00::1]/", false, ErrBlockedAddress},
		{"http://[::ffff:127.0.0.1]/", false, ErrBlockedAddress},
		{"localhost", false, ErrBlockedAddress},
		{"http://wp.localhost/", false, ErrBlockedAddress},
		{"mapped.test", false, ErrBlockedAddress},
		{"mixed.test", false, ErrBlockedAddress},
		{"rebind.test", false, ErrBlockedAddress},
		{"internal.local", false, ErrBlockedAddress},

		{"http://169.254.169.254/latest/meta-data", true, nil},
		{"127.0.0.1", true, nil},
		{"10.0.0.1", true, nil},
		{"192.168.1.1", true, nil},
		{"::1", true, nil},
		{"localhost", true, nil},
		{"mixed.test", true, nil},

		{"ftp://example.com/", false, ErrInvalidScheme},
		{"ftp://example.com/", true, ErrInvalidScheme},
		{"file:///etc/passwd", false, ErrInvalidScheme},
		{"file:///etc/passwd", true, ErrInvalidScheme},
		{"gopher://example.com", true, ErrInvalidScheme},

		{"nowhere.test", false, ErrResolutionFailed},
		{"empty.test", true, ErrResolutionFailed},

		{"", false, ErrInvalidTarget},
		{"http://", false, ErrInvalidTarget},
		{"example.com:99999", false, ErrInvalidTarget},

		{"example.com", false, nil},
		{"HTTPS://Example.COM/path", false, nil},
		{"dual.test", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g := NewGuard(tt.allowPrivate, testResolver())
			got, err := g.Validate(context.Background(), tt.input)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate(%q) unexpected error: %v", tt.input, err)
				}
				if got == nil {
					t.Fatalf("Validate(%q) returned nil target", tt.input)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			var se *SecurityError
			if !errors.As(err, &se) {
				t.Fatalf("Validate(%q) error %T is not a *SecurityError", tt.input, err)
			}
			if got != nil {
				t.Errorf("Validate(%q) returned a target alongside an error", tt.input)
			}
		})
	}
}

func TestValidateSchemeDefaults(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "https://example.com"},
		{"example.com:8080", "http://example.com:8080"},
		{"http://example.com", "http://example.com"},
		{"HTTP://EXAMPLE.com:81/wp", "http://example.com:81"},
		{"https://example.com:8443/", "https://example.com:8443"},
		{"93.184.216.34", "https://93.184.216.34"},
		{"2606:2800:220:1::1", "https://[2606:2800:220:1::1]"},
	}

	g := NewGuard(false, testResolver())
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := g.Validate(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Validate(%q): %v", tt.input, err)
			}
			if got.URL() != tt.want {
				t.Errorf("URL() = %q, want %q", got.URL(), tt.want)
			}
		})
	}
}

func TestValidateDeduplicatesAddresses(t *testing.T) {
	g := NewGuard(false, testResolver())
	got, err := g.Validate(context.Background(), "dual.test")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := addrs("93.184.216.34", "2606:2800:220:1::1")
	if !reflect.DeepEqual(got.Addrs(), want) {
		t.Errorf("Addrs() = %v, want %v", got.Addrs(), want)
	}

	a := got.Addrs()
	a[0] = netip.MustParseAddr("10.0.0.1")
	if got.Addrs()[0] != want[0] {
		t.Errorf("Addrs() exposes the pinned slice")
	}
}

func TestDialRejectsRedirectToPrivateHost(t *testing.T) {
	res := testResolver()
	res["evil.test"] = addrs("127.0.0.1")
	g := NewGuard(false, res)

	tgt, err := g.Validate(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	dial := g.DialContext(tgt)

	for _, addr := range []string{"evil.test:80", "127.0.0.1:80", "169.254.169.254:80", "localhost:80", "[::1]:80"} {
		conn, err := dial(context.Background(), "tcp", addr)
		if conn != nil {
			_ = conn.Close()
		}
		if !errors.Is(err, ErrBlockedAddress) {
			t.Errorf("dial %s: error = %v, want %v", addr, err, ErrBlockedAddress)
		}
	}
}

func TestDialUsesPinnedAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pinned"))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	res := fakeResolver{"wp.test": addrs("127.0.0.1")}
	g := NewGuard(true, res)

	tgt, err := g.Validate(context.Background(), "http://wp.test:"+u.Port())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// The name now points elsewhere; the dialer must keep using the pinned set.
	res["wp.test"] = addrs("10.255.255.1")

	conn, err := g.DialContext(tgt)(context.Background(), "tcp", "wp.test:"+u.Port())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if got := conn.RemoteAddr().(*net.TCPAddr).IP.String(); got != "127.0.0.1" {
		t.Errorf("connected to %s, want 127.0.0.1", got)
	}
}

func TestControlBlocksPrivateAddress(t *testing.T) {
	g := NewGuard(false, nil)
	if err := g.control("tcp4", "127.0.0.1:80", nil); !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("control(127.0.0.1) = %v, want %v", err, ErrBlockedAddress)
	}
	if err := g.control("tcp4", "93.184.216.34:443", nil); err != nil {
		t.Errorf("control(public) = %v, want nil", err)
	}

	g.AllowPrivate = true
	if err := g.control("tcp4", "127.0.0.1:80", nil); err != nil {
		t.Errorf("control with AllowPrivate = %v, want nil", err)
	}
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.53", true},
		{"169.254.169.254", true},
		{"172.15.255.255", false},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"172.32.0.1", false},
		{"100.63.255.255", false},
		{"100.127.0.1", true},
		{"255.255.255.255", true},
		{"8.8.8.8", false},
		{"::", true},
		{"fc00::1", true},
		{"fe80::abcd", true},
		{"::ffff:10.1.2.3", true},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		if got := IsBlocked(netip.MustParseAddr(tt.addr)); got != tt.want {
			t.Errorf("IsBlocked(%s) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
