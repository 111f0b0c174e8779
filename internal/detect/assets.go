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

package detect

import (
	"bytes"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Chocapikk/wpaudit/internal/collector"
	"github.com/Chocapikk/wpaudit/internal/model"
)

var assetRe = regexp.MustCompile(`/wp-content/(themes|plugins|mu-plugins)/([A-Za-z0-9_.\-]+)/([^"'\s<>()\\]*)`)

var skippedSlugs = map[string]struct{}{
	"index": {},
	"cache": {},
	".":     {},
	"..":    {},
}

var kindByDir = map[string]model.Kind{
	"themes":     model.Theme,
	"plugins":    model.Plugin,
	"mu-plugins": model.MuPlugin,
}

// extractAssets returns a candidate finding for every asset URL in ev, in
// document order.
func extractAssets(ev collector.Evidence) []model.Finding {
	if len(ev.Body) == 0 {
		return nil
	}
	var out []model.Finding
	for _, s := range textChunks(ev.Body) {
		out = append(out, matchAssets(s, ev.Probe)...)
	}
	return out
}

// textChunks yields attribute values, text and comments of body. Entities
// are decoded by the tokenizer.
func textChunks(body []byte) []string {
	var chunks []string
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// A malformed tail still leaves the raw bytes worth scanning.
				chunks = append(chunks, string(body))
			}
			return chunks
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, attr := range z.Token().Attr {
				if strings.Contains(attr.Val, "wp-content") {
					chunks = append(chunks, attr.Val)
				}
			}
		case html.TextToken, html.CommentToken:
			if text := z.Token().Data; strings.Contains(text, "wp-content") {
				chunks = append(chunks, text)
			}
		}
	}
}

func matchAssets(s, probe string) []model.Finding {
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, `\u0026`, "&")

	var out []model.Finding
	for _, m := range assetRe.FindAllStringSubmatch(s, -1) {
		slug := m[2]
		if _, skip := skippedSlugs[strings.ToLower(slug)]; skip {
			continue
		}
		ver := queryVersion(m[3])
		out = append(out, model.Finding{
			Kind:     kindByDir[m[1]],
			Slug:     slug,
			Version:  ver,
			Explicit: ver != "",
			Source:   probe,
		})
	}
	return out
}

func queryVersion(rest string) string {
	i := strings.IndexByte(rest, '?')
	if i < 0 {
		return ""
	}
	query := rest[i+1:]
	if j := strings.IndexByte(query, '#'); j >= 0 {
		query = query[:j]
	}
	query = strings.ReplaceAll(query, "&amp;", "&")
	values, err := url.ParseQuery(query)
	if err != nil && len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values.Get("ver"))
}
