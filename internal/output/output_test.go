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

package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Chocapikk/wpaudit/internal/model"
)

func sampleReport() model.AuditReport {
	return model.NewAuditReport("https://example.com", true, []model.AuditItem{
		{Kind: model.Core, Name: "WordPress", Version: "6.8.1", Latest: "6.8.3", Status: model.StatusOutdated},
		{Kind: model.Theme, Name: "flavor-flavor", Version: "1.2.0", Latest: "1.2.0", Status: model.StatusOk},
		{Kind: model.Plugin, Name: "akismet", Version: "5.5", Latest: "5.5", Status: model.StatusOk},
		{Kind: model.Plugin, Name: "Contact-Form-7", Version: "(hash:abcdef1)", Latest: "6.0.6", Status: model.StatusUnknown},
		{Kind: model.MuPlugin, Name: "loader", Version: "1.0", Status: model.StatusUnknown},
	})
}

func names(items []model.AuditItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestParseOptions(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatHuman {
		t.Errorf("ParseFormat(\"\") = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("ParseFormat(xml) should fail")
	}
	if k, err := ParseSort("status"); err != nil || k != SortStatus {
		t.Errorf("ParseSort(status) = %q, %v", k, err)
	}
	if _, err := ParseSort("size"); err == nil {
		t.Errorf("ParseSort(size) should fail")
	}
	if d, err := ParseDetail("NOK"); err != nil || d != DetailNok {
		t.Errorf("ParseDetail(NOK) = %q, %v", d, err)
	}
	if _, err := ParseDetail("some"); err == nil {
		t.Errorf("ParseDetail(some) should fail")
	}
}

func TestArrange(t *testing.T) {
	items := sampleReport().Items

	tests := []struct {
		name   string
		key    SortKey
		detail Detail
		want   []string
	}{
		{"type keeps detection order", SortType, DetailAll,
			[]string{"WordPress", "flavor-flavor", "akismet", "Contact-Form-7", "loader"}},
		{"name is case-insensitive", SortName, DetailAll,
			[]string{"akismet", "Contact-Form-7", "flavor-flavor", "loader", "WordPress"}},
		{"status puts outdated first", SortStatus, DetailAll,
			[]string{"WordPress", "Contact-Form-7", "loader", "flavor-flavor", "akismet"}},
		{"nok hides ok items", SortType, DetailNok,
			[]string{"WordPress", "Contact-Form-7", "loader"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Arrange(items, tt.key, tt.detail))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Arrange() = %v, want %v", got, tt.want)
			}
		})
	}

	if items[0].Name != "WordPress" || len(items) != 5 {
		t.Errorf("Arrange modified its input")
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	if err := Render(&buf, report, Options{Format: FormatJSON, Detail: DetailNok}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded struct {
		URL        string `json:"url"`
		Detected   bool   `json:"wordpress_detected"`
		Outdated   int    `json:"outdated_count"`
		Components []struct {
			Type   string `json:"type"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"components"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.URL != "https://example.com" || !decoded.Detected || decoded.Outdated != 1 {
		t.Errorf("decoded header = %+v", decoded)
	}
	if len(decoded.Components) != 3 || decoded.Components[2].Type != "mu-plugin" {
		t.Errorf("components = %+v", decoded.Components)
	}
	if len(report.Items) != 5 {
		t.Errorf("Render modified the report")
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Format: FormatYAML}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if decoded["url"] != "https://example.com" {
		t.Errorf("url = %v", decoded["url"])
	}
	if !strings.Contains(buf.String(), "status: outdated") {
		t.Errorf("YAML should carry text statuses:\n%s", buf.String())
	}
}

func TestRenderHumanAndNone(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Format: FormatHuman}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"https://example.com", "WordPress", "flavor-flavor", "6.8.3", "MuPlugin"} {
		if !strings.Contains(out, want) {
			t.Errorf("human output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Render(&buf, sampleReport(), Options{Format: FormatNone}); err != nil || buf.Len() != 0 {
		t.Errorf("FormatNone wrote %q, %v", buf.String(), err)
	}

	notWP := Human(model.NewAuditReport("https://static.example", false, nil))
	if !strings.Contains(notWP, "WordPress not detected") {
		t.Errorf("missing not-detected notice: %s", notWP)
	}
}

func TestSummary(t *testing.T) {
	out := Summary([]model.AuditReport{
		sampleReport(),
		model.NewAuditReport("https://static.example", false, nil),
	})
	for _, want := range []string{"Targets scanned: 2", "WordPress detected: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
