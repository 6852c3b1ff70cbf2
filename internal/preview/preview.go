/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview renders classified and paginated screenplay text for the
// terminal. It writes plain monospace text only.
package preview

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"goscreenwriter/internal/pager"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/textlayout"
)

// ColumnsPerInch converts inch offsets to monospace columns (12pt Courier).
const ColumnsPerInch = 10

// PlainText writes each line's normalized text on its own line, bypassing
// pagination.
func PlainText(w io.Writer, lines []screenplay.ClassifiedLine) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l.NormalizedText); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteClassified writes one "kind<TAB>text" row per line.
func WriteClassified(w io.Writer, lines []screenplay.ClassifiedLine) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintf(bw, "%-13s\t%s\n", l.Kind, l.NormalizedText); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePages renders pages as they would print in Courier: each page opens
// with its number right-aligned in the top margin ("2."), rows are indented
// by margin plus the line's indent, and pages are separated by a form feed.
// Half-row spacing after scene headings and transitions is rounded to whole
// rows.
func WritePages(w io.Writer, pages []pager.Page, g pager.Geometry) error {
	bw := bufio.NewWriter(w)
	width := cols(g.PageWidthInches - g.MarginInches)
	left := cols(g.MarginInches)
	for i, p := range pages {
		if i > 0 {
			if _, err := bw.WriteString("\f\n"); err != nil {
				return err
			}
		}
		num := fmt.Sprintf("%d.", p.Number)
		pad := width - textlayout.ColumnCount(num)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(bw, "%s%s\n\n", strings.Repeat(" ", pad), num)

		row := 0.0 // rows emitted below the top margin
		for _, pl := range p.Lines {
			target := (pl.YPosition - g.MarginInches) / g.LineHeightInches
			for ; row+0.5 < target; row++ {
				bw.WriteByte('\n')
			}
			indent := strings.Repeat(" ", left+cols(pl.XIndent))
			for _, seg := range pl.Segments {
				if seg == "" {
					bw.WriteByte('\n')
				} else {
					fmt.Fprintf(bw, "%s%s\n", indent, seg)
				}
				row++
			}
		}
	}
	return bw.Flush()
}

func cols(inches float64) int { return int(math.Round(inches * ColumnsPerInch)) }
