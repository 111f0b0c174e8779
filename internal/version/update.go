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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver"

	"github.com/Chocapikk/wpaudit/internal/http"
)

var tagsURL = "https://api.github.com/repos/Chocapikk/wpaudit/tags"

// CheckLatestVersion compares currentVersion against the newest release tag.
// It returns the latest tag and whether currentVersion is at least as new.
// "unknown" is returned when the tags cannot be fetched or parsed.
func CheckLatestVersion(ctx context.Context, currentVersion string) (string, bool) {
	tags, err := fetchTags(ctx)
	if err != nil || len(tags) == 0 {
		return "unknown", false
	}

	var latest *semver.Version
	for _, tag := range tags {
		if v, err := semver.NewVersion(strings.TrimPrefix(tag, "v")); err == nil {
			if latest == nil || v.Compare(latest) > 0 {
				latest = v
			}
		}
	}
	if latest == nil {
		return "unknown", false
	}

	curr, err := semver.NewVersion(strings.TrimPrefix(currentVersion, "v"))
	if err != nil {
		return latest.String(), false
	}
	return latest.String(), curr.Compare(latest) >= 0
}

func fetchTags(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var tags []struct {
		Name string `json:"name"`
	}
	client := http.NewHTTPClient(http.Config{Timeout: 10 * time.Second, MaxRedirects: -1})
	if err := client.GetJSON(ctx, tagsURL, &tags); err != nil {
		return nil, fmt.Errorf("fetch release tags: %w", err)
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}
