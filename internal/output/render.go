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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Chocapikk/wpaudit/internal/model"
)

// Render writes report to w in the requested format.
func Render(w io.Writer, report model.AuditReport, opts Options) error {
	arranged := report
	arranged.Items = Arrange(report.Items, opts.Sort, opts.Detail)

	switch opts.Format {
	case FormatNone:
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(arranged)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(arranged); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, Human(arranged))
		return err
	}
}

// Human renders a report as a bordered summary with a component table.
func Human(report model.AuditReport) string {
	if !report.WordPressDetected && len(report.Items) == 0 {
		return separatorStyle.Render(
			fmt.Sprintf("🔎 %s\n%s", urlStyle.Render(report.Target), unknownStyle.Render("WordPress not detected")),
		)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(summaryLine(report)))
	if len(report.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(componentTable(report.Items).String())
	}
	return separatorStyle.Render(b.String())
}

func summaryLine(report model.AuditReport) string {
	counts := model.CountByStatus(report.Items)
	title := cases.Title(language.Und)

	parts := make([]string, 0, len(model.StatusOrder))
	for _, s := range model.StatusOrder {
		parts = append(parts, fmt.Sprintf("%s: %d", StatusStyle(s).Render(title.String(s.String())), counts[s]))
	}
	return fmt.Sprintf("🔎 %s (%s)", urlStyle.Render(report.Target), strings.Join(parts, " | "))
}

func componentTable(items []model.AuditItem) *table.Table {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Kind.Label(),
			it.Name,
			orDash(it.Version),
			orDash(it.Latest),
			it.Status.Label(),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))).
		Headers("Type", "Name", "Version", "Latest", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(items) {
				return StatusStyle(items[row].Status).Padding(0, 1)
			}
			return cellStyle
		})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Summary renders totals across several reports as a tree.
func Summary(reports []model.AuditReport) string {
	detected := 0
	counts := make(map[model.Status]int)
	for _, r := range reports {
		if r.WordPressDetected {
			detected++
		}
		for s, n := range model.CountByStatus(r.Items) {
			counts[s] += n
		}
	}

	root := tree.Root(titleStyle.Render("📊 Audit summary"))
	root.Child(fmt.Sprintf("Targets scanned: %d", len(reports)))
	root.Child(fmt.Sprintf("WordPress detected: %d", detected))

	components := tree.Root("Components")
	title := cases.Title(language.Und)
	for _, s := range model.StatusOrder {
		label := StatusStyle(s).Render(fmt.Sprintf("%-8s", title.String(s.String())))
		components.Child(fmt.Sprintf("%s: %d", label, counts[s]))
	}
	root.Child(components)

	return separatorStyle.Render(root.String())
}
