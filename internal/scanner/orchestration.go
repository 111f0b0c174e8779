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
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Chocapikk/wpaudit/internal/logger"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/target"
)

// ScanTargets scans opts.URL or every line of opts.File, renders the reports
// and writes them to opts.Output. A single target that fails, including a
// guard rejection, is returned as an error. With a target file, failures are
// logged and recorded in the results while the other targets keep going.
func ScanTargets(ctx context.Context, opts ScanOptions) ([]Result, error) {
	targets, err := loadTargets(opts)
	if err != nil {
		return nil, err
	}

	writer, err := createWriter(opts)
	if err != nil {
		return nil, err
	}

	cfg := buildScanConfig(opts.Threads, len(targets))
	rc := &runContext{
		opts:     opts,
		config:   cfg,
		progress: createProgressManager(opts, len(targets)),
		writer:   writer,
	}
	rc.scanner = NewScanner(opts)
	rc.scanner.perSite = cfg.perSite

	results := rc.execute(ctx, targets)
	rc.progress.Finish()

	if err := ctx.Err(); err != nil {
		_ = closeWriter(writer)
		return results, err
	}

	if opts.File == "" && results[0].Err != nil {
		_ = closeWriter(writer)
		return results, results[0].Err
	}

	err = errors.Join(rc.write(results), rc.display(results), closeWriter(writer))
	return results, err
}

func (rc *runContext) execute(ctx context.Context, targets []string) []Result {
	results := make([]Result, len(targets))

	var g errgroup.Group
	g.SetLimit(rc.config.siteConcurrent)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = rc.scanTarget(ctx, t)
			rc.progress.Increment()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (rc *runContext) scanTarget(ctx context.Context, input string) (res Result) {
	res.Target = input
	defer recoverScan(input, &res.Err)

	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}
	rc.progress.SetMessage("🔎 " + input)

	report, err := rc.scanner.Scan(ctx, input)
	if err != nil {
		res.Err = err
		if rc.opts.File != "" && ctx.Err() == nil {
			rc.logFailure(input, err)
		}
		return res
	}
	res.Report = report

	if !report.WordPressDetected {
		logger.DefaultLogger.Debug(input + ": WordPress not detected")
	} else if report.OutdatedCount > 0 {
		logger.DefaultLogger.Debug(fmt.Sprintf("%s: %d outdated component(s)", input, report.OutdatedCount))
	}
	return res
}

func (rc *runContext) logFailure(input string, err error) {
	var se *target.SecurityError
	if errors.As(err, &se) {
		logger.DefaultLogger.Warning("Rejected " + input + ": " + err.Error())
		return
	}
	logger.DefaultLogger.Error("Failed to scan " + input + ": " + err.Error())
}

// Reports returns the successful reports in target order.
func Reports(results []Result) []model.AuditReport {
	var out []model.AuditReport
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Report)
		}
	}
	return out
}
