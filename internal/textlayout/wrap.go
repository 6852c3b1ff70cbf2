/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "strings"

// tolerance absorbs float noise when a line fills the width exactly.
const tolerance = 1e-9

// Wrap breaks text into rows no wider than maxWidth using greedy word
// wrapping. Runs of whitespace collapse to a single space. A word wider than
// maxWidth is split between runes; a single rune always makes progress even
// if it is wider than the row. Blank text yields one empty row, so the result
// is never empty. A non-positive maxWidth disables wrapping.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if m == nil {
		m = Columns{}
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}
	fits := func(s string) bool { return m.Width(s) <= maxWidth+tolerance }

	var rows []string
	cur := ""
	for _, w := range words {
		if cur != "" {
			if cand := cur + " " + w; fits(cand) {
				cur = cand
				continue
			}
			rows = append(rows, cur)
			cur = ""
		}
		// word starts a fresh row; split it if it alone is too wide
		for !fits(w) {
			head, tail := splitToFit(w, fits)
			rows = append(rows, head)
			w = tail
		}
		cur = w
	}
	if cur != "" {
		rows = append(rows, cur)
	}
	return rows
}

// splitToFit returns the longest rune prefix of w that fits (at least one
// rune) and the remainder.
func splitToFit(w string, fits func(string) bool) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && fits(string(runes[:n+1])) {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
