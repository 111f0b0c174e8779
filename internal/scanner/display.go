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
	"fmt"
	"io"
	"os"

	"github.com/Chocapikk/wpaudit/internal/output"
)

func (rc *runContext) out() io.Writer {
	if rc.opts.Out != nil {
		return rc.opts.Out
	}
	return os.Stdout
}

// display renders the successful reports in target order, then a summary
// tree when more than one site was scanned.
func (rc *runContext) display(results []Result) error {
	reports := Reports(results)
	for _, r := range reports {
		if err := output.Render(rc.out(), r, rc.opts.Render); err != nil {
			return fmt.Errorf("render %s: %w", r.Target, err)
		}
	}

	human := rc.opts.Render.Format == output.FormatHuman || rc.opts.Render.Format == ""
	if len(reports) > 1 && human {
		if _, err := fmt.Fprintln(rc.out(), output.Summary(reports)); err != nil {
			return err
		}
	}
	return nil
}

func (rc *runContext) write(results []Result) error {
	if rc.writer == nil {
		return nil
	}
	for _, r := range Reports(results) {
		if err := rc.writer.WriteReport(r); err != nil {
			return fmt.Errorf("write %s: %w", r.Target, err)
		}
	}
	return nil
}
