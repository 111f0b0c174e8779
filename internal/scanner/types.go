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

package scanner

import (
	"io"

	"github.com/Chocapikk/wpaudit/internal/config"
	"github.com/Chocapikk/wpaudit/internal/file"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/output"
	"github.com/Chocapikk/wpaudit/internal/progress"
)

// ScanOptions contains all configuration options for scanning.
type ScanOptions struct {
	config.Config

	URL    string
	File   string
	Output string // report file (.csv, .json, .yaml)
	Render output.Options
	Out    io.Writer // rendered reports, stdout when nil
	Quiet  bool      // no progress bar
}

// Result is the outcome of scanning one target.
type Result struct {
	Target string
	Report model.AuditReport
	Err    error
}

type scanConfig struct {
	perSite        int
	siteConcurrent int
}

type runContext struct {
	opts     ScanOptions
	scanner  *Scanner
	config   scanConfig
	progress *progress.ProgressManager
	writer   file.WriterInterface
}
