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
	"fmt"
	"sort"
	"strings"

	"github.com/Chocapikk/wpaudit/internal/model"
)

type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatNone  Format = "none"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatNone:
		return f, nil
	case "":
		return FormatHuman, nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: human, json, yaml, none)", s)
}

type SortKey string

const (
	SortType   SortKey = "type"
	SortName   SortKey = "name"
	SortStatus SortKey = "status"
)

func ParseSort(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortType, SortName, SortStatus:
		return k, nil
	case "":
		return SortType, nil
	}
	return "", fmt.Errorf("unknown sort key %q (valid: type, name, status)", s)
}

type Detail string

const (
	DetailAll Detail = "all"
	DetailNok Detail = "nok"
)

func ParseDetail(s string) (Detail, error) {
	switch d := Detail(strings.ToLower(strings.TrimSpace(s))); d {
	case DetailAll, DetailNok:
		return d, nil
	case "":
		return DetailAll, nil
	}
	return "", fmt.Errorf("unknown detail level %q (valid: all, nok)", s)
}

// Options controls presentation only; the report itself is never changed.
type Options struct {
	Format Format
	Sort   SortKey
	Detail Detail
}

// Arrange returns a sorted, filtered copy of items.
func Arrange(items []model.AuditItem, key SortKey, detail Detail) []model.AuditItem {
	out := make([]model.AuditItem, 0, len(items))
	for _, it := range items {
		if detail == DetailNok && it.Status == model.StatusOk {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortName:
			if !strings.EqualFold(a.Name, b.Name) {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			return a.Kind < b.Kind
		case SortStatus:
			if a.Status.Rank() != b.Status.Rank() {
				return a.Status.Rank() < b.Status.Rank()
			}
			return a.Kind < b.Kind
		default:
			return a.Kind < b.Kind
		}
	})
	return out
}
