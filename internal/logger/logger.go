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

package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A2BE2"))
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// successKey marks entries logged through Success so the text formatter can
// render them differently from plain info lines.
const successKey = "success"

// Logger wraps a logrus logger with the small set of helpers used across the
// CLI. Verbose toggles Debug output and is safe to flip at runtime.
type Logger struct {
	mu      sync.Mutex
	Verbose bool
	log     *logrus.Logger
}

// DefaultLogger writes styled lines to stderr.
var DefaultLogger = New(os.Stderr)

// New returns a Logger writing to w with the styled text formatter.
func New(w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&styledFormatter{})
	return &Logger{log: l}
}

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetOutput(w)
}

// SetJSON switches between the styled text formatter and logrus' JSON one.
func (l *Logger) SetJSON(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if enabled {
		l.log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	l.log.SetFormatter(&styledFormatter{})
}

func (l *Logger) verbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Verbose
}

func (l *Logger) Info(msg string) {
	l.log.Info(msg)
}

func (l *Logger) Warning(msg string) {
	l.log.Warn(msg)
}

func (l *Logger) Error(msg string) {
	l.log.Error(msg)
}

func (l *Logger) Success(msg string) {
	l.log.WithField(successKey, true).Info(msg)
}

// Debug only prints when Verbose is set.
func (l *Logger) Debug(msg string) {
	if !l.verbose() {
		return
	}
	l.log.Debug(msg)
}

// WithFields logs msg at info level with structured fields attached.
func (l *Logger) WithFields(fields map[string]interface{}, msg string) {
	l.log.WithFields(logrus.Fields(fields)).Info(msg)
}

// styledFormatter renders "HH:MM:SS [LEVEL] message key=value" lines.
type styledFormatter struct{}

func (f *styledFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, style := levelLabel(e)

	var b strings.Builder
	b.WriteString(timeStyle.Render(e.Time.Format("15:04:05")))
	b.WriteString(" ")
	b.WriteString(style.Render("[" + label + "]"))
	b.WriteString(" ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k == successKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(fieldStyle.Render(fmt.Sprintf("%s=%v", k, e.Data[k])))
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func levelLabel(e *logrus.Entry) (string, lipgloss.Style) {
	if _, ok := e.Data[successKey]; ok {
		return "SUCCESS", successStyle
	}
	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG", debugStyle
	case logrus.WarnLevel:
		return "WARN", warnStyle
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR", errorStyle
	default:
		return "INFO", infoStyle
	}
}
