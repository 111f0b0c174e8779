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

package model

// Finding is a candidate component detection derived from probe evidence.
// Version is empty when no version could be discovered; Explicit is set when
// it came from a ver= query parameter.
type Finding struct {
	Kind     Kind
	Slug     string
	Version  string
	Explicit bool
	Source   string
}

// Name is the display name: the slug, or "WordPress" for core.
func (f Finding) Name() string {
	if f.Kind == Core {
		return "WordPress"
	}
	return f.Slug
}

// AuditItem is one row of the final report.
type AuditItem struct {
	Kind    Kind   `json:"type" yaml:"type"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Latest  string `json:"latest_version" yaml:"latest_version"`
	Status  Status `json:"status" yaml:"status"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

// AuditReport is the outcome of one scan.
type AuditReport struct {
	Target            string      `json:"url" yaml:"url"`
	WordPressDetected bool        `json:"wordpress_detected" yaml:"wordpress_detected"`
	OutdatedCount     int         `json:"outdated_count" yaml:"outdated_count"`
	Items             []AuditItem `json:"components" yaml:"components"`
}

// NewAuditReport builds a report, deriving the outdated count from items.
// The items slice is copied.
func NewAuditReport(target string, wordpress bool, items []AuditItem) AuditReport {
	copied := make([]AuditItem, len(items))
	copy(copied, items)

	outdated := 0
	for _, it := range copied {
		if it.Status == StatusOutdated {
			outdated++
		}
	}
	return AuditReport{
		Target:            target,
		WordPressDetected: wordpress,
		OutdatedCount:     outdated,
		Items:             copied,
	}
}
