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

package model

import (
	"fmt"
	"strings"
)

// Status is the freshness verdict for one audited component.
type Status int

const (
	StatusUnknown Status = iota
	StatusOk
	StatusOutdated
)

// StatusOrder lists statuses from most to least urgent.
var StatusOrder = []Status{StatusOutdated, StatusUnknown, StatusOk}

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusOutdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// Label is the human form used in tables.
func (s Status) Label() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusOutdated:
		return "Outdated"
	default:
		return "Unknown"
	}
}

// Rank orders statuses by urgency, lower is more urgent.
func (s Status) Rank() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return len(StatusOrder)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok":
		return StatusOk, nil
	case "outdated":
		return StatusOutdated, nil
	case "unknown":
		return StatusUnknown, nil
	}
	return StatusUnknown, fmt.Errorf("unknown status %q (valid: ok, outdated, unknown)", s)
}

// CountByStatus returns how many items carry each status. Every status is
// present in the map, zero when absent.
func CountByStatus(items []AuditItem) map[Status]int {
	counts := make(map[Status]int, len(StatusOrder))
	for _, st := range StatusOrder {
		counts[st] = 0
	}
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}
