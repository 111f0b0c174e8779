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

package scanner

// buildScanConfig splits the thread budget between concurrently scanned
// sites and the registry lookups of each site.
func buildScanConfig(threads, targetCount int) scanConfig {
	if threads < 1 {
		threads = 1
	}
	if targetCount < 1 {
		targetCount = 1
	}

	if targetCount == 1 {
		return scanConfig{perSite: threads, siteConcurrent: 1}
	}

	siteConcurrent := min(threads, targetCount)
	perSite := max(threads/siteConcurrent, 1)

	remaining := threads - perSite*siteConcurrent
	if remaining > 0 && siteConcurrent < targetCount {
		perSite += remaining / siteConcurrent
		if remaining%siteConcurrent > 0 {
			perSite++
		}
	}
	return scanConfig{perSite: perSite, siteConcurrent: siteConcurrent}
}
