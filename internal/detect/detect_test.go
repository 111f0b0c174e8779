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

package detect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Chocapikk/wpaudit/internal/collector"
	"github.com/Chocapikk/wpaudit/internal/model"
)

func evidence(probe, body string, cookies ...string) collector.Evidence {
	return collector.Evidence{Probe: probe, Status: 200, Body: []byte(body), Cookies: cookies}
}

func set(evs ...collector.Evidence) collector.EvidenceSet {
	return collector.EvidenceSet(evs)
}

func TestDetectMetaGeneratorOnly(t *testing.T) {
	s := set(evidence(collector.ProbeHomepage,
		`<html><head><meta name="generator" content="WordPress 6.8.1" /></head><body>Hello</body></html>`))

	got := Detect(s)
	want := []model.Finding{{Kind: model.Core, Version: "6.8.1", Source: collector.ProbeHomepage}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %+v, want %+v", got, want)
	}
}

func TestDetectCoreSignals(t *testing.T) {
	tests := []struct {
		name        string
		set         collector.EvidenceSet
		wantFound   bool
		wantVersion string
		wantSource  string
	}{
		{
			name: "generator beats feed",
			set: set(
				evidence(collector.ProbeHomepage, `<meta content="WordPress 6.8.1" name="Generator">`),
				evidence(collector.ProbeFeed, `<generator>https://wordpress.org/?v=6.7</generator>`),
			),
			wantFound: true, wantVersion: "6.8.1", wantSource: collector.ProbeHomepage,
		},
		{
			name: "feed beats readme",
			set: set(
				evidence(collector.ProbeHomepage, `<html></html>`),
				evidence(collector.ProbeFeed, `<rss><channel><generator>https://wordpress.org/?v=6.7.2</generator></channel></rss>`),
				evidence(collector.ProbeReadme, `<h1>WordPress</h1><br /> Version 6.5`),
			),
			wantFound: true, wantVersion: "6.7.2", wantSource: collector.ProbeFeed,
		},
		{
			name: "readme version",
			set: set(
				evidence(collector.ProbeReadme, `<h1 id="logo">WordPress</h1><br /> Version 4.9.8`),
			),
			wantFound: true, wantVersion: "4.9.8", wantSource: collector.ProbeReadme,
		},
		{
			name: "readme without WordPress marker",
			set: set(
				evidence(collector.ProbeReadme, `<h1>Some CMS</h1> Version 2.1`),
			),
			wantFound: false,
		},
		{
			name: "generator without version falls through to feed",
			set: set(
				evidence(collector.ProbeHomepage, `<meta name="generator" content="WordPress">`),
				evidence(collector.ProbeFeed, `wordpress.org/?v=6.6.1`),
			),
			wantFound: true, wantVersion: "6.6.1", wantSource: collector.ProbeFeed,
		},
		{
			name: "rest namespaces only",
			set: set(
				evidence(collector.ProbeRestAPI, `{"namespaces":["oembed/1.0","wp/v2"],"routes":{}}`),
			),
			wantFound: true, wantSource: collector.ProbeRestAPI,
		},
		{
			name: "rest site fields only",
			set: set(
				evidence(collector.ProbeRestAPI, `{"name":"Blog","url":"https://example.com"}`),
			),
			wantFound: true, wantSource: collector.ProbeRestAPI,
		},
		{
			name: "rest api from another product",
			set: set(
				evidence(collector.ProbeRestAPI, `{"namespaces":["acme/v1"]}`),
			),
			wantFound: false,
		},
		{
			name: "malformed rest body",
			set: set(
				evidence(collector.ProbeRestAPI, `{"namespaces":["wp/v2"`),
			),
			wantFound: false,
		},
		{
			name: "feed namespace",
			set: set(
				evidence(collector.ProbeFeed, `<rss xmlns:wfw="http://wellformedweb.org/CommentAPI/">`),
			),
			wantFound: true, wantSource: collector.ProbeFeed,
		},
		{
			name: "cookie only on readme",
			set: set(
				evidence(collector.ProbeHomepage, `<html></html>`, "PHPSESSID"),
				evidence(collector.ProbeReadme, ``, "wordpress_test_cookie"),
			),
			wantFound: true, wantSource: collector.ProbeReadme,
		},
		{
			name: "asset paths are not a core signal",
			set: set(
				evidence(collector.ProbeHomepage, `<script src="/wp-includes/js/jquery/jquery.min.js"></script>`),
			),
			wantFound: false,
		},
		{
			name: "generator from another product",
			set: set(
				evidence(collector.ProbeHomepage, `<meta name="generator" content="WordPressFooBuilder 2.0">`),
			),
			wantFound: false,
		},
		{
			name: "generator with trailing text",
			set: set(
				evidence(collector.ProbeHomepage, `<meta name="generator" content="WordPress 6.4.2 - theme builder">`),
			),
			wantFound: true, wantVersion: "6.4.2", wantSource: collector.ProbeHomepage,
		},
		{
			name:      "nothing",
			set:       set(evidence(collector.ProbeHomepage, `<html><body>static site</body></html>`, "session")),
			wantFound: false,
		},
		{
			name:      "empty evidence",
			set:       nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, found := DetectCore(tt.set)
			if found != tt.wantFound {
				t.Fatalf("DetectCore() found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if f.Kind != model.Core || f.Version != tt.wantVersion || f.Source != tt.wantSource {
				t.Errorf("DetectCore() = %+v, want version %q from %s", f, tt.wantVersion, tt.wantSource)
			}
		})
	}
}

func TestFiredSignals(t *testing.T) {
	s := set(
		evidence(collector.ProbeHomepage, `<meta name="generator" content="WordPress 6.8.1"><link href="/wp-content/themes/x/style.css">`, "wp-settings-time-1"),
		evidence(collector.ProbeRestAPI, `{"namespaces":["wp/v2"]}`),
	)
	var names []string
	for _, sig := range FiredSignals(s) {
		names = append(names, sig.Name)
	}
	want := []string{"meta-generator", "rest-namespaces", "cookies"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("FiredSignals() = %v, want %v", names, want)
	}
}

func TestDetectForeignUploadOnly(t *testing.T) {
	s := set(evidence(collector.ProbeHomepage,
		`<html><body><img src="https://blog.other.org/wp-content/uploads/2024/01/logo.png"></body></html>`))

	if got := Detect(s); len(got) != 0 {
		t.Errorf("Detect() = %+v, want no findings", got)
	}
}

func TestDetectAssets(t *testing.T) {
	tests := []struct {
		name string
		set  collector.EvidenceSet
		want []model.Finding
	}{
		{
			name: "theme with ver",
			set: set(evidence(collector.ProbeHomepage,
				`<link rel="stylesheet" href="https://example.com/wp-content/themes/flavor-flavor/style.css?ver=1.2.0">`)),
			want: []model.Finding{
				{Kind: model.Theme, Slug: "flavor-flavor", Version: "1.2.0", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "grouped by kind in first-seen order",
			set: set(evidence(collector.ProbeHomepage, `
				<script src="/wp-content/plugins/contact-form-7/includes/js/index.js?ver=6.0.6"></script>
				<script src="/wp-content/mu-plugins/loader/app.js"></script>
				<link href="/wp-content/themes/astra/style.css?ver=4.9.0">
				<script src="/wp-content/plugins/akismet/_inc/akismet.js?ver=5.3&amp;foo=bar"></script>`)),
			want: []model.Finding{
				{Kind: model.Theme, Slug: "astra", Version: "4.9.0", Explicit: true, Source: collector.ProbeHomepage},
				{Kind: model.Plugin, Slug: "contact-form-7", Version: "6.0.6", Explicit: true, Source: collector.ProbeHomepage},
				{Kind: model.Plugin, Slug: "akismet", Version: "5.3", Explicit: true, Source: collector.ProbeHomepage},
				{Kind: model.MuPlugin, Slug: "loader", Source: collector.ProbeHomepage},
			},
		},
		{
			name: "explicit ver beats earlier bare reference",
			set: set(evidence(collector.ProbeHomepage, `
				<img src="/wp-content/plugins/woocommerce/assets/logo.png">
				<script src="/wp-content/plugins/woocommerce/assets/js/frontend.js?ver=9.8.5"></script>`)),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "woocommerce", Version: "9.8.5", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "probe precedence breaks ties",
			set: set(
				evidence(collector.ProbeHomepage, `<script src="/wp-content/plugins/jetpack/a.js?ver=14.5"></script>`),
				evidence(collector.ProbeFeed, `<img src="/wp-content/plugins/jetpack/b.png?ver=14.6"/>`),
			),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "jetpack", Version: "14.5", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "explicit ver from a later probe beats bare homepage reference",
			set: set(
				evidence(collector.ProbeHomepage, `<img src="/wp-content/plugins/jetpack/logo.png">`),
				evidence(collector.ProbeRestAPI, `{"x":"\/wp-content\/plugins\/jetpack\/a.js?ver=14.5"}`),
			),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "jetpack", Version: "14.5", Explicit: true, Source: collector.ProbeRestAPI},
			},
		},
		{
			name: "same probe picks highest version",
			set: set(evidence(collector.ProbeHomepage, `
				<script src="/wp-content/plugins/elementor/a.js?ver=3.9.0"></script>
				<script src="/wp-content/plugins/elementor/b.js?ver=3.10.1"></script>
				<script src="/wp-content/plugins/elementor/c.js?ver=3.2"></script>`)),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "elementor", Version: "3.10.1", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "incomparable versions pick greatest raw string",
			set: set(evidence(collector.ProbeHomepage, `
				<script src="/wp-content/plugins/yoast/a.js?ver=abcdef1"></script>
				<script src="/wp-content/plugins/yoast/b.js?ver=1.0"></script>`)),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "yoast", Version: "abcdef1", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "escaped json and inline script",
			set: set(evidence(collector.ProbeHomepage,
				`<script>var cfg = {"url":"https:\/\/example.com\/wp-content\/plugins\/wpforms-lite\/assets\/x.js?ver=1.9.5"};</script>`)),
			want: []model.Finding{
				{Kind: model.Plugin, Slug: "wpforms-lite", Version: "1.9.5", Explicit: true, Source: collector.ProbeHomepage},
			},
		},
		{
			name: "skipped slugs",
			set: set(evidence(collector.ProbeHomepage, `
				<a href="/wp-content/plugins/index/x"></a>
				<a href="/wp-content/plugins/cache/x"></a>
				<a href="/wp-content/plugins/../x"></a>
				<a href="/wp-content/plugins/"></a>`)),
			want: []model.Finding{},
		},
		{
			name: "upload paths ignored",
			set:  set(evidence(collector.ProbeHomepage, `<img src="/wp-content/uploads/2024/01/a.png">`)),
			want: []model.Finding{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectAssets(tt.set)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectAssets() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	s := set(
		evidence(collector.ProbeHomepage, `<meta name="generator" content="WordPress 6.8.1">
			<script src="/wp-content/plugins/a/x.js?ver=1.0"></script>
			<script src="/wp-content/plugins/b/x.js?ver=2.0"></script>`),
		evidence(collector.ProbeFeed, `<img src="/wp-content/themes/t/x.png?ver=3">`),
	)
	first := Detect(s)
	for i := 0; i < 20; i++ {
		if got := Detect(s); !reflect.DeepEqual(got, first) {
			t.Fatalf("Detect() changed between runs: %+v vs %+v", got, first)
		}
	}
}

func TestDetectTieBreakIgnoresOrder(t *testing.T) {
	refs := []string{
		`<script src="/wp-content/plugins/forms/a.js?ver=2.1"></script>`,
		`<script src="/wp-content/plugins/forms/b.js?ver=2.10"></script>`,
		`<script src="/wp-content/plugins/forms/c.js?ver=rc-build"></script>`,
	}
	forward := Detect(set(evidence(collector.ProbeHomepage, strings.Join(refs, "\n"))))
	backward := Detect(set(evidence(collector.ProbeHomepage, refs[2]+"\n"+refs[1]+"\n"+refs[0])))
	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("order changed the result: %+v vs %+v", forward, backward)
	}
	if len(forward) != 1 || forward[0].Version != "rc-build" {
		t.Errorf("got %+v, want the single forms finding at rc-build", forward)
	}
}

func TestIsWordPressCookie(t *testing.T) {
	tests := map[string]bool{
		"wordpress_logged_in_abc": true,
		"wordpress_test_cookie":   true,
		"wp-settings-1":           true,
		"wp_lang":                 true,
		"wp_langx":                false,
		"PHPSESSID":               false,
		"wp":                      false,
	}
	for name, want := range tests {
		if got := IsWordPressCookie(name); got != want {
			t.Errorf("IsWordPressCookie(%q) = %v, want %v", name, got, want)
		}
	}
}
