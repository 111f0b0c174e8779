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
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Chocapikk/wpaudit/internal/collector"
	"github.com/Chocapikk/wpaudit/internal/model"
)

// coreSignal inspects one probe's evidence (every probe when probe is empty).
// match returns the version it found, if any, and whether the signal fired.
type coreSignal struct {
	name  string
	probe string
	match func(collector.Evidence) (string, bool)
}

// coreSignals are evaluated in order; the first one yielding a version wins.
var coreSignals = []coreSignal{
	{"meta-generator", collector.ProbeHomepage, matchMetaGenerator},
	{"feed-generator", collector.ProbeFeed, matchFeedGenerator},
	{"readme-version", collector.ProbeReadme, matchReadmeVersion},
	{"rest-namespaces", collector.ProbeRestAPI, matchRestNamespaces},
	{"feed-namespace", collector.ProbeFeed, matchFeedNamespace},
	{"cookies", "", matchCookies},
}

var (
	generatorContentRe = regexp.MustCompile(`(?i)^\s*WordPress\b(?:\s+([0-9][0-9A-Za-z.\-]*))?`)
	feedGeneratorRe    = regexp.MustCompile(`(?i)wordpress\.org/\?v=([0-9][0-9A-Za-z.\-]*)`)
	readmeVersionRe    = regexp.MustCompile(`(?i)\bVersion\s+([0-9]+(?:\.[0-9]+)+)`)
)

// CoreSignal names the signal that produced a core finding.
type CoreSignal struct {
	Name    string
	Probe   string
	Version string
}

// DetectCore evaluates the core signals. It reports a finding when any signal
// fires; the version comes from the first signal that yields one.
func DetectCore(set collector.EvidenceSet) (model.Finding, bool) {
	var fallback *CoreSignal

	for _, sig := range coreSignals {
		for _, ev := range evidenceFor(set, sig.probe) {
			ver, fired := sig.match(ev)
			if !fired {
				continue
			}
			if ver != "" {
				return model.Finding{Kind: model.Core, Version: ver, Source: ev.Probe}, true
			}
			if fallback == nil {
				fallback = &CoreSignal{Name: sig.name, Probe: ev.Probe}
			}
		}
	}

	if fallback == nil {
		return model.Finding{}, false
	}
	return model.Finding{Kind: model.Core, Source: fallback.Probe}, true
}

// FiredSignals lists every core signal that matches, in evaluation order.
func FiredSignals(set collector.EvidenceSet) []CoreSignal {
	var out []CoreSignal
	for _, sig := range coreSignals {
		for _, ev := range evidenceFor(set, sig.probe) {
			if ver, fired := sig.match(ev); fired {
				out = append(out, CoreSignal{Name: sig.name, Probe: ev.Probe, Version: ver})
				break
			}
		}
	}
	return out
}

func evidenceFor(set collector.EvidenceSet, probe string) []collector.Evidence {
	if probe == "" {
		return set
	}
	if ev, ok := set.Get(probe); ok {
		return []collector.Evidence{ev}
	}
	return nil
}

func matchMetaGenerator(ev collector.Evidence) (string, bool) {
	if len(ev.Body) == 0 {
		return "", false
	}
	z := html.NewTokenizer(bytes.NewReader(ev.Body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return "", false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.Data != "meta" {
			continue
		}

		var name, content string
		for _, attr := range tok.Attr {
			switch strings.ToLower(attr.Key) {
			case "name":
				name = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if !strings.EqualFold(strings.TrimSpace(name), "generator") {
			continue
		}
		if m := generatorContentRe.FindStringSubmatch(content); m != nil {
			return m[1], true
		}
	}
}

func matchFeedGenerator(ev collector.Evidence) (string, bool) {
	if m := feedGeneratorRe.FindSubmatch(ev.Body); m != nil {
		return string(m[1]), true
	}
	return "", false
}

func matchReadmeVersion(ev collector.Evidence) (string, bool) {
	if !bytes.Contains(ev.Body, []byte("WordPress")) {
		return "", false
	}
	if m := readmeVersionRe.FindSubmatch(ev.Body); m != nil {
		return string(m[1]), true
	}
	return "", false
}

func matchRestNamespaces(ev collector.Evidence) (string, bool) {
	if len(ev.Body) == 0 {
		return "", false
	}
	var index struct {
		Name       *string  `json:"name"`
		URL        *string  `json:"url"`
		Namespaces []string `json:"namespaces"`
	}
	if err := json.Unmarshal(ev.Body, &index); err != nil {
		return "", false
	}
	for _, ns := range index.Namespaces {
		if strings.HasPrefix(ns, "wp/") {
			return "", true
		}
	}
	return "", index.Name != nil && index.URL != nil
}

func matchFeedNamespace(ev collector.Evidence) (string, bool) {
	body := bytes.ToLower(ev.Body)
	if bytes.Contains(body, []byte("xmlns:wfw=")) {
		return "", true
	}
	return "", bytes.Contains(body, []byte("<generator>https://wordpress.org/")) ||
		bytes.Contains(body, []byte("<generator>http://wordpress.org/"))
}

func matchCookies(ev collector.Evidence) (string, bool) {
	for _, name := range ev.Cookies {
		if IsWordPressCookie(name) {
			return "", true
		}
	}
	return "", false
}

// IsWordPressCookie reports whether a cookie name is one WordPress sets.
func IsWordPressCookie(name string) bool {
	return strings.HasPrefix(name, "wordpress_") ||
		strings.HasPrefix(name, "wp-") ||
		name == "wp_lang"
}
