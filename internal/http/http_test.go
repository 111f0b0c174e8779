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
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchAppliesHeaders(t *testing.T) {
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("X-Audit")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Headers: []string{"user-agent: wpaudit-test", "X-Audit: yes", "malformed"}})
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != "wpaudit-test" {
		t.Errorf("User-Agent = %q, want wpaudit-test", gotUA)
	}
	if gotAuth != "yes" {
		t.Errorf("X-Audit = %q, want yes", gotAuth)
	}
}

func TestFetchRandomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := NewHTTPClient(Config{}).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA == "" || strings.HasPrefix(gotUA, "Go-http-client") {
		t.Errorf("User-Agent = %q, want a browser UA", gotUA)
	}
}

func TestFetchTruncatesLargeBody(t *testing.T) {
	body := strings.Repeat("a", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	tests := []struct {
		name          string
		max           int64
		wantLen       int
		wantTruncated bool
	}{
		{"under cap", 8192, 4096, false},
		{"exactly cap", 4096, 4096, false},
		{"over cap", 1000, 1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewHTTPClient(Config{MaxBodySize: tt.max}).Fetch(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(resp.Body) != tt.wantLen || resp.Truncated != tt.wantTruncated {
				t.Errorf("len=%d truncated=%v, want len=%d truncated=%v",
					len(resp.Body), resp.Truncated, tt.wantLen, tt.wantTruncated)
			}
		})
	}
}

func TestFetchRecordsCookiesOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "wp_lang", Value: "en_US"})
		http.SetCookie(w, &http.Cookie{Name: "wordpress_test_cookie", Value: "1"})
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(Config{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.OK() {
		t.Errorf("OK() = true for %d", resp.StatusCode)
	}
	if len(resp.Cookies) != 2 || resp.Cookies[0] != "wp_lang" || resp.Cookies[1] != "wordpress_test_cookie" {
		t.Errorf("Cookies = %v", resp.Cookies)
	}
}

func TestFetchKeepsCookiesFromRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.SetCookie(w, &http.Cookie{Name: "wordpress_test_cookie", Value: "WP Cookie check"})
			http.Redirect(w, r, "/home/", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "wp_lang", Value: "en_US"})
		http.SetCookie(w, &http.Cookie{Name: "wordpress_test_cookie", Value: "again"})
		_, _ = w.Write([]byte("home"))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(Config{MaxRedirects: -1}).Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "home" {
		t.Errorf("Body = %q, want the redirect target", resp.Body)
	}
	want := []string{"wordpress_test_cookie", "wp_lang"}
	if strings.Join(resp.Cookies, ",") != strings.Join(want, ",") {
		t.Errorf("Cookies = %v, want %v", resp.Cookies, want)
	}
}

func TestRedirectLimits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/once", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("final"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()

	if _, err := NewHTTPClient(Config{MaxRedirects: 3}).Fetch(ctx, srv.URL+"/loop"); !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("redirect loop error = %v, want %v", err, ErrTooManyRedirects)
	}

	followed, err := NewHTTPClient(Config{MaxRedirects: -1}).Fetch(ctx, srv.URL+"/once")
	if err != nil || string(followed.Body) != "final" {
		t.Errorf("Fetch(/once) following redirects = %+v, %v", followed, err)
	}

	resp, err := NewHTTPClient(Config{MaxRedirects: 0}).Fetch(ctx, srv.URL+"/once")
	if err != nil {
		t.Fatalf("Fetch with redirects disabled: %v", err)
	}
	if resp.StatusCode != http.StatusMovedPermanently {
		t.Errorf("status = %d, want 301", resp.StatusCode)
	}
}

func TestGetJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"6.8.3"}`))
	})
	mux.HandleFunc("/busy", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(Config{})
	ctx := context.Background()

	var out struct {
		Version string `json:"version"`
	}
	if err := c.GetJSON(ctx, srv.URL+"/ok", &out); err != nil || out.Version != "6.8.3" {
		t.Errorf("GetJSON(/ok) = %+v, %v", out, err)
	}

	var se *StatusError
	if err := c.GetJSON(ctx, srv.URL+"/busy", &out); !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Errorf("GetJSON(/busy) error = %v, want StatusError 429", err)
	}

	if err := c.GetJSON(ctx, srv.URL+"/garbage", &out); err == nil {
		t.Errorf("GetJSON(/garbage) should fail to decode")
	}
}

func TestFetchHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHTTPClient(Config{}).Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch on cancelled ctx = %v, want context.Canceled", err)
	}
}
