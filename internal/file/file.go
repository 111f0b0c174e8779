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

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Chocapikk/wpaudit/internal/model"
)

type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		_ = file.Close()
		return nil, err
	}
	writer.Flush()
	return &CSVWriter{file: file, writer: writer}, nil
}

func (c *CSVWriter) WriteReport(report model.AuditReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.WriteAll(csvRows(report)); err != nil {
		return fmt.Errorf("write CSV rows: %w", err)
	}
	return nil
}

func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}

// JSONWriter writes one report per line.
type JSONWriter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

func NewJSONWriter(output string) (*JSONWriter, error) {
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	return &JSONWriter{file: file, enc: json.NewEncoder(file)}, nil
}

func (j *JSONWriter) WriteReport(report model.AuditReport) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(report)
}

func (j *JSONWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// YAMLWriter writes one YAML document per report.
type YAMLWriter struct {
	file *os.File
	enc  *yaml.Encoder
	mu   sync.Mutex
}

func NewYAMLWriter(output string) (*YAMLWriter, error) {
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML file: %w", err)
	}
	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	return &YAMLWriter{file: file, enc: enc}, nil
}

func (y *YAMLWriter) WriteReport(report model.AuditReport) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.enc.Encode(report)
}

func (y *YAMLWriter) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if err := y.enc.Close(); err != nil {
		_ = y.file.Close()
		return err
	}
	return y.file.Close()
}

// DetectOutputFormat maps a file extension to a writer format. Unknown
// extensions fall back to CSV.
func DetectOutputFormat(outputFile string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(outputFile), ".")) {
	case "json", "jsonl":
		return "json"
	case "yaml", "yml":
		return "yaml"
	default:
		return "csv"
	}
}

func GetWriter(outputFile string) (WriterInterface, error) {
	switch DetectOutputFormat(outputFile) {
	case "json":
		return NewJSONWriter(outputFile)
	case "yaml":
		return NewYAMLWriter(outputFile)
	default:
		return NewCSVWriter(outputFile)
	}
}

// ReadLines returns the trimmed, non-empty lines of filename. Lines
// starting with '#' are skipped.
func ReadLines(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	lines := make([]string, 0, 64)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return lines, nil
}

// StorageDir returns the wpaudit configuration directory without creating it.
func StorageDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wpaudit"), nil
}
