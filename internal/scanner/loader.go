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
	"errors"
	"fmt"

	"github.com/Chocapikk/wpaudit/internal/file"
	"github.com/Chocapikk/wpaudit/internal/progress"
)

var ErrNoTargets = errors.New("no targets to scan")

func loadTargets(opts ScanOptions) ([]string, error) {
	if opts.File != "" {
		lines, err := file.ReadLines(opts.File)
		if err != nil {
			return nil, fmt.Errorf("read targets: %w", err)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("%s: %w", opts.File, ErrNoTargets)
		}
		return lines, nil
	}
	if opts.URL == "" {
		return nil, ErrNoTargets
	}
	return []string{opts.URL}, nil
}

func createProgressManager(opts ScanOptions, targetCount int) *progress.ProgressManager {
	if opts.Quiet || opts.File == "" {
		return nil
	}
	return progress.NewProgressBar(targetCount, "🔎 Scanning...")
}

func createWriter(opts ScanOptions) (file.WriterInterface, error) {
	if opts.Output == "" {
		return nil, nil
	}
	return file.GetWriter(opts.Output)
}

func closeWriter(writer file.WriterInterface) error {
	if writer == nil {
		return nil
	}
	return writer.Close()
}
