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
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strings"

	"github.com/Chocapikk/wpaudit/internal/http"
	"github.com/Chocapikk/wpaudit/internal/model"
)

const DefaultBaseURL = "https://api.wordpress.org"

// JSONGetter is the transport used by WordPressOrg.
// *http.HTTPClientManager satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// WordPressOrg queries the public api.wordpress.org endpoints.
type WordPressOrg struct {
	BaseURL string
	client  JSONGetter
}

// NewWordPressOrg returns a client for baseURL (DefaultBaseURL when empty).
func NewWordPressOrg(baseURL string, client JSONGetter) *WordPressOrg {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WordPressOrg{BaseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

type coreOffers struct {
	Offers []struct {
		Version string `json:"version"`
	} `json:"offers"`
}

type componentInfo struct {
	Version string          `json:"version"`
	Error   json.RawMessage `json:"error"`
}

func (w *WordPressOrg) Latest(ctx context.Context, kind model.Kind, slug string) (string, error) {
	switch kind {
	case model.Core:
		return w.core(ctx)
	case model.Plugin:
		return w.component(ctx, kind, slug, "plugins", "plugin_information")
	case model.Theme:
		return w.component(ctx, kind, slug, "themes", "theme_information")
	default:
		return "", lookupError(kind, slug, ErrNotFound, errors.New("not listed in any registry"))
	}
}

func (w *WordPressOrg) core(ctx context.Context) (string, error) {
	var body coreOffers
	if err := w.client.GetJSON(ctx, w.BaseURL+"/core/version-check/1.7/", &body); err != nil {
		return "", classify(model.Core, "", err)
	}
	if len(body.Offers) == 0 || body.Offers[0].Version == "" {
		return "", lookupError(model.Core, "", ErrUnavailable, errors.New("no offers in response"))
	}
	return body.Offers[0].Version, nil
}

func (w *WordPressOrg) component(ctx context.Context, kind model.Kind, slug, path, action string) (string, error) {
	if slug == "" {
		return "", lookupError(kind, slug, ErrNotFound, errors.New("empty slug"))
	}
	q := url.Values{}
	q.Set("action", action)
	q.Set("request[slug]", slug)
	endpoint := fmt.Sprintf("%s/%s/info/1.2/?%s", w.BaseURL, path, q.Encode())

	var info componentInfo
	if err := w.client.GetJSON(ctx, endpoint, &info); err != nil {
		return "", classify(kind, slug, err)
	}
	if len(info.Error) > 0 && string(info.Error) != "null" {
		return "", lookupError(kind, slug, ErrNotFound, fmt.Errorf("registry error %s", info.Error))
	}
	if info.Version == "" {
		return "", lookupError(kind, slug, ErrNotFound, errors.New("no version in response"))
	}
	return info.Version, nil
}

func classify(kind model.Kind, slug string, err error) error {
	var se *http.StatusError
	if errors.As(err, &se) && se.Code == stdhttp.StatusNotFound {
		return lookupError(kind, slug, ErrNotFound, err)
	}
	return lookupError(kind, slug, ErrUnavailable, err)
}
