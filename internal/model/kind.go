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

// Kind identifies the type of WordPress component a finding refers to.
type Kind int

const (
	Core Kind = iota
	Theme
	Plugin
	MuPlugin
)

// Kinds lists every kind in report grouping order.
var Kinds = []Kind{Core, Theme, Plugin, MuPlugin}

func (k Kind) String() string {
	switch k {
	case Core:
		return "core"
	case Theme:
		return "theme"
	case Plugin:
		return "plugin"
	case MuPlugin:
		return "mu-plugin"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label is the human form used in tables.
func (k Kind) Label() string {
	switch k {
	case Core:
		return "Core"
	case Theme:
		return "Theme"
	case Plugin:
		return "Plugin"
	case MuPlugin:
		return "MuPlugin"
	default:
		return k.String()
	}
}

// Listed reports whether the kind has a public WordPress.org listing.
func (k Kind) Listed() bool {
	return k != MuPlugin
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts the String or Label form, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "core", "wordpress":
		return Core, nil
	case "theme":
		return Theme, nil
	case "plugin":
		return Plugin, nil
	case "mu-plugin", "muplugin", "mu_plugin":
		return MuPlugin, nil
	}
	return Core, fmt.Errorf("unknown component kind %q (valid: core, theme, plugin, mu-plugin)", s)
}
