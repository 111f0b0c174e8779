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

package analyze

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/registry"
	"github.com/Chocapikk/wpaudit/internal/version"
)

const DefaultConcurrency = 4

// Analyzer classifies findings against the latest published versions.
// A nil Registry skips every lookup and leaves all statuses Unknown.
type Analyzer struct {
	Registry    registry.Registry
	Concurrency int
}

// New returns an Analyzer backed by reg.
func New(reg registry.Registry) *Analyzer {
	return &Analyzer{Registry: reg, Concurrency: DefaultConcurrency}
}

// Analyze builds the report for target. Items keep the order of findings.
// Registry failures only degrade individual items to Unknown.
func (a *Analyzer) Analyze(ctx context.Context, target string, findings []model.Finding) model.AuditReport {
	items := make([]model.AuditItem, len(findings))
	wordpress := false

	limit := a.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, f := range findings {
		if f.Kind == model.Core {
			wordpress = true
		}
		detected := version.Normalize(f.Version)
		items[i] = model.AuditItem{
			Kind:    f.Kind,
			Name:    f.Name(),
			Version: detected.String(),
			Status:  model.StatusUnknown,
			Source:  f.Source,
		}
		if !a.needsLookup(f) {
			continue
		}

		g.Go(func() error {
			latest, err := a.Registry.Latest(ctx, f.Kind, f.Slug)
			if err != nil {
				return nil
			}
			items[i].Latest = latest
			items[i].Status = Classify(detected, version.Normalize(latest))
			return nil
		})
	}
	_ = g.Wait()

	return model.NewAuditReport(target, wordpress, items)
}

func (a *Analyzer) needsLookup(f model.Finding) bool {
	if a.Registry == nil || !f.Kind.Listed() {
		return false
	}
	return f.Kind != model.Core || f.Version != ""
}

// Classify maps the comparison of detected against latest to a status.
// Hash and Unknown versions carry no order, so they are never Ok or
// Outdated even when identical to latest.
func Classify(detected, latest version.Version) model.Status {
	if detected.IsZero() || latest.IsZero() {
		return model.StatusUnknown
	}
	if k := detected.Kind(); k == version.Hash || k == version.Unknown {
		return model.StatusUnknown
	}
	switch version.Compare(detected, latest) {
	case version.Less:
		return model.StatusOutdated
	case version.Equal, version.Greater:
		return model.StatusOk
	default:
		return model.StatusUnknown
	}
}
