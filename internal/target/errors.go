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

package target

import (
	"errors"
	"fmt"
)

var (
	ErrBlockedAddress   = errors.New("blocked address")
	ErrInvalidScheme    = errors.New("invalid scheme")
	ErrResolutionFailed = errors.New("resolution failed")
	ErrInvalidTarget    = errors.New("invalid target")
)

// SecurityError is returned when a target is rejected. It is always fatal for
// the scan and never retried.
type SecurityError struct {
	Reason error
	Input  string
	Detail string
}

func (e *SecurityError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Input, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %s", e.Input, e.Reason, e.Detail)
}

func (e *SecurityError) Unwrap() error {
	return e.Reason
}

func reject(reason error, input, detail string) *SecurityError {
	return &SecurityError{Reason: reason, Input: input, Detail: detail}
}
