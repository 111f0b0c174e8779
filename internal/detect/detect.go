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
	"github.com/Chocapikk/wpaudit/internal/collector"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/version"
)

// Detect runs every detector over set. Findings are grouped by kind (core,
// themes, plugins, mu-plugins) and keep first-seen order within a kind.
func Detect(set collector.EvidenceSet) []model.Finding {
	var out []model.Finding
	if core, ok := DetectCore(set); ok {
		out = append(out, core)
	}
	return append(out, DetectAssets(set)...)
}

// DetectAssets extracts themes, plugins and mu-plugins and keeps one finding
// per (kind, slug).
func DetectAssets(set collector.EvidenceSet) []model.Finding {
	type key struct {
		kind model.Kind
		slug string
	}

	index := make(map[key]int)
	var order []model.Finding

	for _, ev := range set {
		for _, cand := range extractAssets(ev) {
			k := key{cand.Kind, cand.Slug}
			i, seen := index[k]
			if !seen {
				index[k] = len(order)
				order = append(order, cand)
				continue
			}
			if better(cand, order[i]) {
				order[i] = cand
			}
		}
	}

	out := make([]model.Finding, 0, len(order))
	for _, kind := range []model.Kind{model.Theme, model.Plugin, model.MuPlugin} {
		for _, f := range order {
			if f.Kind == kind {
				out = append(out, f)
			}
		}
	}
	return out
}

// better reports whether cand should replace cur for the same component.
func better(cand, cur model.Finding) bool {
	if cand.Explicit != cur.Explicit {
		return cand.Explicit
	}
	if pc, pk := collector.Precedence(cand.Source), collector.Precedence(cur.Source); pc != pk {
		return pc < pk
	}
	if !cand.Explicit || cand.Version == cur.Version {
		return false
	}
	switch version.Compare(version.Normalize(cand.Version), version.Normalize(cur.Version)) {
	case version.Greater:
		return true
	case version.Incomparable:
		return cand.Version > cur.Version
	default:
		return false
	}
}
