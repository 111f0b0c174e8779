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

package file

import "github.com/Chocapikk/wpaudit/internal/model"

// WriterInterface defines the interface for persisting audit reports.
type WriterInterface interface {
	WriteReport(report model.AuditReport) error
	Close() error
}

// csvHeader is the column layout of CSV output, one row per component.
var csvHeader = []string{
	"URL",
	"WordPress",
	"Type",
	"Name",
	"Version",
	"Latest",
	"Status",
	"Source",
}

func csvRows(report model.AuditReport) [][]string {
	detected := "no"
	if report.WordPressDetected {
		detected = "yes"
	}
	if len(report.Items) == 0 {
		return [][]string{{report.Target, detected, "", "", "", "", "", ""}}
	}

	rows := make([][]string, 0, len(report.Items))
	for _, it := range report.Items {
		rows = append(rows, []string{
			report.Target,
			detected,
			it.Kind.String(),
			it.Name,
			it.Version,
			it.Latest,
			it.Status.String(),
			it.Source,
		})
	}
	return rows
}
