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

package progress

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

const msgWidth = 40

// ProgressManager serialises access to a terminal progress bar. A nil
// *ProgressManager is valid and does nothing.
type ProgressManager struct {
	bar *progressbar.ProgressBar
	mu  sync.Mutex
}

// NewProgressBar draws on stderr.
func NewProgressBar(total int, description string) *ProgressManager {
	return NewProgressBarTo(ansi.NewAnsiStderr(), total, description)
}

// NewProgressBarTo draws on w.
func NewProgressBarTo(w io.Writer, total int, description string) *ProgressManager {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+padOrTrunc(description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "▓",
			SaucerHead:    "▒",
			SaucerPadding: "░",
			BarStart:      "⏳ ",
			BarEnd:        " ⏳",
		}),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressManager{bar: bar}
}

// Increment increases the current progress by one.
func (p *ProgressManager) Increment() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *ProgressManager) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

// SetMessage updates the bar's description, padded/truncated to fixed width.
func (p *ProgressManager) SetMessage(description string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Describe("[cyan]" + padOrTrunc(description))
}

// Current reports how many steps were completed.
func (p *ProgressManager) Current() int64 {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar.State().CurrentNum
}

// padOrTrunc makes s exactly msgWidth runes wide.
func padOrTrunc(s string) string {
	r := []rune(s)
	if len(r) > msgWidth {
		return string(r[:msgWidth-3]) + "..."
	}
	return s + strings.Repeat(" ", msgWidth-len(r))
}
