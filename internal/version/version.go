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

package version

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a raw version string.
type Kind int

const (
	Unknown Kind = iota
	Semantic
	Timestamp
	Hash
	DateLike
)

func (k Kind) String() string {
	switch k {
	case Semantic:
		return "semantic"
	case Timestamp:
		return "timestamp"
	case Hash:
		return "hash"
	case DateLike:
		return "date"
	default:
		return "unknown"
	}
}

// Ordering is the result of Compare. Incomparable is returned whenever two
// versions cannot be ordered, never an error or a guess.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	Incomparable
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Unix timestamp bounds: 2001-09-09 through 2038-01-19.
const (
	minTimestamp = 1000000000
	maxTimestamp = 2147483647
)

const (
	minDateYear = 1990
	maxDateYear = 2100
)

var (
	semanticPattern  = regexp.MustCompile(`^\d+\.\d+(\.\d+)*$`)
	timestampPattern = regexp.MustCompile(`^\d{10}$`)
	hashPattern      = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)
	datePattern      = regexp.MustCompile(`^\d{8}$`)
)

// Version is a normalized version value. The zero value is Unknown("").
type Version struct {
	kind  Kind
	raw   string
	parts []uint64
	num   uint64
}

// Normalize classifies raw. Semantic is tried first, then Timestamp, Hash,
// DateLike, falling back to Unknown. A hash must contain at least one a-f
// letter so that all-digit strings stay eligible for DateLike.
func Normalize(raw string) Version {
	s := strings.TrimSpace(raw)
	v := Version{kind: Unknown, raw: s}

	switch {
	case semanticPattern.MatchString(s):
		if parts, ok := parseParts(s); ok {
			v.kind = Semantic
			v.parts = parts
		}
	case timestampPattern.MatchString(s) && inTimestampRange(s):
		v.kind = Timestamp
		v.num, _ = strconv.ParseUint(s, 10, 64)
	case hashPattern.MatchString(s) && strings.ContainsAny(strings.ToLower(s), "abcdef"):
		v.kind = Hash
		v.raw = strings.ToLower(s)
	case datePattern.MatchString(s) && isCalendarDate(s):
		v.kind = DateLike
		v.num, _ = strconv.ParseUint(s, 10, 64)
	}
	return v
}

func parseParts(s string) ([]uint64, bool) {
	fields := strings.Split(s, ".")
	parts := make([]uint64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, false
		}
		parts[i] = n
	}
	return parts, true
}

func inTimestampRange(s string) bool {
	n, err := strconv.ParseUint(s, 10, 64)
	return err == nil && n >= minTimestamp && n <= maxTimestamp
}

func isCalendarDate(s string) bool {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return false
	}
	return t.Year() >= minDateYear && t.Year() <= maxDateYear
}

func (v Version) Kind() Kind { return v.kind }

// Raw returns the trimmed input (lowercased for hashes).
func (v Version) Raw() string { return v.raw }

// String is the display form.
func (v Version) String() string {
	switch v.kind {
	case Timestamp:
		return "(timestamp:" + v.raw + ")"
	case Hash:
		return "(hash:" + v.raw + ")"
	default:
		return v.raw
	}
}

// IsZero reports whether v was normalized from an empty string.
func (v Version) IsZero() bool {
	return v.kind == Unknown && v.raw == ""
}

// Compare orders a relative to b. Versions of different kinds are
// Incomparable, as are distinct hashes and distinct unknown strings.
func Compare(a, b Version) Ordering {
	if a.kind != b.kind {
		return Incomparable
	}
	switch a.kind {
	case Semantic:
		return compareParts(a.parts, b.parts)
	case Timestamp, DateLike:
		return compareUint(a.num, b.num)
	default:
		if a.raw == b.raw {
			return Equal
		}
		return Incomparable
	}
}

func compareParts(a, b []uint64) Ordering {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y uint64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if o := compareUint(x, y); o != Equal {
			return o
		}
	}
	return Equal
}

func compareUint(x, y uint64) Ordering {
	switch {
	case x < y:
		return Less
	case x > y:
		return Greater
	default:
		return Equal
	}
}
