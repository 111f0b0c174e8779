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
	"fmt"
	stdhttp "net/http"
)

const (
	ProbeHomepage = "homepage"
	ProbeFeed     = "feed"
	ProbeReadme   = "readme"
	ProbeRestAPI  = "rest-api"
)

type probe struct {
	id   string
	path string
}

// probes is listed in precedence order.
var probes = []probe{
	{ProbeHomepage, "/"},
	{ProbeFeed, "/feed/"},
	{ProbeReadme, "/readme.html"},
	{ProbeRestAPI, "/wp-json/"},
}

// Precedence ranks a probe id; lower wins. Unknown ids rank last.
func Precedence(id string) int {
	for i, p := range probes {
		if p.id == id {
			return i
		}
	}
	return len(probes)
}

// Evidence is the raw outcome of one probe.
type Evidence struct {
	Probe     string
	URL       string
	Status    int
	Body      []byte
	Header    stdhttp.Header
	Cookies   []string
	Truncated bool
	Err       error
}

// ProbeError records why a probe produced no usable body.
type ProbeError struct {
	Probe  string
	URL    string
	Status int
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("probe %s (%s): %v", e.Probe, e.URL, e.Err)
	}
	return fmt.Sprintf("probe %s (%s): status %d", e.Probe, e.URL, e.Status)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// EvidenceSet holds one entry per probe in precedence order.
type EvidenceSet []Evidence

// Get returns the evidence recorded for probe id.
func (s EvidenceSet) Get(id string) (Evidence, bool) {
	for _, e := range s {
		if e.Probe == id {
			return e, true
		}
	}
	return Evidence{}, false
}

// Body returns the body for probe id, or nil.
func (s EvidenceSet) Body(id string) []byte {
	e, _ := s.Get(id)
	return e.Body
}

// Cookies returns every cookie name seen across probes, first-seen order.
func (s EvidenceSet) Cookies() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range s {
		for _, c := range e.Cookies {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Errors returns the probe errors in precedence order.
func (s EvidenceSet) Errors() []error {
	var errs []error
	for _, e := range s {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errs
}
