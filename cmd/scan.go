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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chocapikk/wpaudit/internal/config"
	"github.com/Chocapikk/wpaudit/internal/logger"
	"github.com/Chocapikk/wpaudit/internal/output"
	"github.com/Chocapikk/wpaudit/internal/scanner"
)

var scanFlagKeys = map[string]string{
	"threads":        config.KeyThreads,
	"rate-limit":     config.KeyRateLimit,
	"header":         config.KeyHeaders,
	"timeout":        config.KeyTimeout,
	"resolver":       config.KeyResolver,
	"registry-url":   config.KeyRegistryURL,
	"max-redirects":  config.KeyMaxRedirects,
	"max-body-bytes": config.KeyMaxBodyBytes,
	"user-agent":     config.KeyUserAgent,
	"allow-private":  config.KeyAllowPrivate,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect WordPress on a site and audit its components",
	Long: `Validates each target against the private-address policy, probes a fixed set of
well-known WordPress paths, and reports the core, themes and plugins found with
their latest published versions.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, v, scanFlagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	if noCheck, _ := cmd.Flags().GetBool("no-check-latest"); noCheck {
		cfg.CheckLatest = false
	}

	render, err := renderOptions(cmd)
	if err != nil {
		return err
	}

	opts := scanner.ScanOptions{
		Config: cfg,
		URL:    cmd.Flag("url").Value.String(),
		File:   cmd.Flag("file").Value.String(),
		Output: cmd.Flag("output").Value.String(),
		Render: render,
		Out:    cmd.OutOrStdout(),
	}
	if opts.URL == "" && opts.File == "" {
		return fmt.Errorf("you must provide either --url or --file")
	}
	if opts.AllowPrivate {
		logger.DefaultLogger.Warning("Private and loopback targets are allowed")
	}

	results, err := scanner.ScanTargets(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if opts.Output != "" {
		logger.DefaultLogger.Success(fmt.Sprintf("Results saved to %s", opts.Output))
	}
	if opts.File != "" {
		reports := scanner.Reports(results)
		detected, outdated := 0, 0
		for _, r := range reports {
			if r.WordPressDetected {
				detected++
			}
			outdated += r.OutdatedCount
		}
		logger.DefaultLogger.WithFields(map[string]interface{}{
			"targets":   len(results),
			"scanned":   len(reports),
			"wordpress": detected,
			"outdated":  outdated,
		}, "Scan finished")
	}
	return nil
}

func renderOptions(cmd *cobra.Command) (output.Options, error) {
	format, err := output.ParseFormat(cmd.Flag("format").Value.String())
	if err != nil {
		return output.Options{}, err
	}
	sortKey, err := output.ParseSort(cmd.Flag("sort").Value.String())
	if err != nil {
		return output.Options{}, err
	}
	detail, err := output.ParseDetail(cmd.Flag("detail").Value.String())
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{Format: format, Sort: sortKey, Detail: detail}, nil
}

func init() {
	d := config.Defaults()
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("url", "u", "", "Target URL to scan")
	scanCmd.Flags().StringP("file", "f", "", "File containing a list of URLs")
	scanCmd.Flags().StringP("output", "o", "", "Output file to save results (csv, json, yaml)")
	scanCmd.Flags().String("format", string(output.FormatHuman), "Report format: human, json, yaml or none")
	scanCmd.Flags().String("sort", string(output.SortType), "Sort components by type, name or status")
	scanCmd.Flags().String("detail", string(output.DetailAll), "Components to show: all, or nok for outdated and unknown only")
	scanCmd.Flags().IntP("threads", "t", d.Threads, "Number of concurrent threads")
	scanCmd.Flags().
		Int("rate-limit", d.RateLimit, "Maximum requests per second per target (0 = unlimited)")
	scanCmd.Flags().
		StringArrayP("header", "H", []string{}, "HTTP header to include in requests. Can be specified multiple times.")
	scanCmd.Flags().Duration("timeout", d.Timeout, "Timeout for each probe")
	scanCmd.Flags().String("resolver", "", "DNS server to resolve targets with (default: system resolver)")
	scanCmd.Flags().String("registry-url", d.RegistryURL, "Base URL of the WordPress.org API")
	scanCmd.Flags().Int("max-redirects", d.MaxRedirects, "Maximum redirects to follow (0 = disable)")
	scanCmd.Flags().Int64("max-body-bytes", d.MaxBodyBytes, "Maximum bytes read from each response")
	scanCmd.Flags().String("user-agent", "", "User-Agent header (default: random browser UA)")
	scanCmd.Flags().Bool("allow-private", false, "Allow loopback, private and link-local targets")
	scanCmd.Flags().Bool("no-check-latest", false, "Skip latest-version lookups")
}
