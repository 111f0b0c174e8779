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

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chocapikk/wpaudit/internal/model"
)

var (
	ErrNotFound    = errors.New("not found in registry")
	ErrUnavailable = errors.New("registry unavailable")
)

// Registry returns the latest published version of a component.
type Registry interface {
	Latest(ctx context.Context, kind model.Kind, slug string) (string, error)
}

// Error wraps a failed lookup.
type Error struct {
	Kind model.Kind
	Slug string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == model.Core {
		return fmt.Sprintf("core lookup: %v", e.Err)
	}
	return fmt.Sprintf("%s %q lookup: %v", e.Kind, e.Slug, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func lookupError(kind model.Kind, slug string, sentinel, cause error) *Error {
	if cause == nil {
		return &Error{Kind: kind, Slug: slug, Err: sentinel}
	}
	return &Error{Kind: kind, Slug: slug, Err: fmt.Errorf("%w: %v", sentinel, cause)}
}
