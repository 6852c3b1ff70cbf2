/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pager lays classified screenplay lines out on pages.
//
// Each line is wrapped to the width left by its kind's indent and stacked
// from the top margin down. A line that does not fit the remaining space
// moves whole to the next page; rows are never split across pages. A
// character cue is kept on the same page as its first dialogue line
// (including any parenthetical and blank lines in between) whenever that
// group fits on one page.
package pager

import (
	"context"
	"fmt"
	"log/slog"

	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/textlayout"
)

// epsilon absorbs float accumulation when rows fill a page exactly.
const epsilon = 1e-9

// PlacedLine is a classified line positioned on a page. XIndent is relative
// to the left margin, YPosition is measured from the top edge of the page.
type PlacedLine struct {
	Line      screenplay.ClassifiedLine
	XIndent   float64
	YPosition float64
	Segments  []string
	Height    float64
}

// Page is one laid out page; Number starts at 1.
type Page struct {
	Number int
	Lines  []PlacedLine
}

// Height sums the vertical space consumed by the page's lines.
func (p Page) Height() float64 {
	var h float64
	for _, l := range p.Lines {
		h += l.Height
	}
	return h
}

// Paginator holds a validated geometry and the measurer used for wrapping.
// It has no mutable state and can be shared between goroutines if its
// measurer can.
type Paginator struct {
	geo     Geometry
	measure textlayout.Measurer
	log     *slog.Logger
}

// Option customizes a Paginator.
type Option func(*Paginator)

// WithMeasurer replaces the default 10-pitch column measurer.
func WithMeasurer(m textlayout.Measurer) Option {
	return func(p *Paginator) {
		if m != nil {
			p.measure = m
		}
	}
}

// WithLogger sets the logger used for overflow warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Paginator) {
		if l != nil {
			p.log = l
		}
	}
}

// New returns a Paginator for g. Invalid geometry is a programming error
// and panics; callers validate user supplied geometry with Geometry.Validate.
func New(g Geometry, opts ...Option) *Paginator {
	if err := g.Validate(); err != nil {
		panic(fmt.Errorf("pager: invalid geometry: %w", err))
	}
	p := &Paginator{geo: g.Clone(), measure: textlayout.Columns{CharsPerInch: textlayout.DefaultCharsPerInch}}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = applog.WithComponent("pager")
	}
	return p
}

// Paginate lays out lines with the default measurer.
func Paginate(lines []screenplay.ClassifiedLine, g Geometry) []Page {
	return New(g).Paginate(lines)
}

// Geometry returns a copy of the paginator's geometry.
func (p *Paginator) Geometry() Geometry { return p.geo.Clone() }

// Paginate lays out lines in order. Empty input yields a single empty page.
func (p *Paginator) Paginate(lines []screenplay.ClassifiedLine) []Page {
	return p.PaginateContext(context.Background(), lines)
}

// PaginateContext is Paginate with ctx passed to the logger, so overflow
// warnings carry the caller's log attributes.
func (p *Paginator) PaginateContext(ctx context.Context, lines []screenplay.ClassifiedLine) []Page {
	placed := make([]PlacedLine, len(lines))
	for i, cl := range lines {
		placed[i] = p.measureLine(cl)
	}
	ends, tails := groupTails(lines, placed)

	var (
		usable  = p.geo.UsableHeight()
		top     = p.geo.MarginInches
		bottom  = p.geo.PageHeightInches - p.geo.MarginInches
		pages   = []Page{{Number: 1}}
		y       = top
		prev    screenplay.LineKind
		hasPrev bool
	)
	cur := &pages[0]
	breakPage := func() {
		pages = append(pages, Page{Number: len(pages) + 1})
		cur = &pages[len(pages)-1]
		y = top
	}

	for i := range placed {
		pl := placed[i]
		if len(cur.Lines) > 0 {
			if opensGroup(pl.Line.Kind, prev, hasPrev) && ends[i+1] >= 0 {
				gh := pl.Height + tails[i+1]
				if y+gh > bottom+epsilon && gh <= usable+epsilon {
					breakPage()
				}
			}
			if y+pl.Height > bottom+epsilon {
				breakPage()
			}
		}
		if pl.Height > usable+epsilon {
			p.log.WarnContext(ctx, "line taller than page, overflowing",
				slog.Int("page", cur.Number),
				slog.String("kind", pl.Line.Kind.String()),
				slog.Int("rows", len(pl.Segments)),
				slog.Float64("height_in", pl.Height))
		}
		pl.YPosition = y
		cur.Lines = append(cur.Lines, pl)
		y += pl.Height
		if pl.Line.Kind != screenplay.Empty {
			prev, hasPrev = pl.Line.Kind, true
		}
	}

	p.log.DebugContext(ctx, "paginated", slog.Int("lines", len(lines)), slog.Int("pages", len(pages)))
	return pages
}

func (p *Paginator) measureLine(cl screenplay.ClassifiedLine) PlacedLine {
	segs := textlayout.Wrap(cl.NormalizedText, p.geo.TextWidth(cl.Kind), p.measure)
	h := float64(len(segs)) * p.geo.LineHeightInches
	if cl.Kind == screenplay.SceneHeading || cl.Kind == screenplay.Transition {
		h += p.geo.LineHeightInches / 2
	}
	return PlacedLine{Line: cl, XIndent: p.geo.Indents[cl.Kind], Segments: segs, Height: h}
}

// opensGroup reports whether a line of kind k, following prev (the last
// non-empty kind), opens a cue group: a Character line, or a Parenthetical
// inside a dialogue block.
func opensGroup(k, prev screenplay.LineKind, hasPrev bool) bool {
	switch k {
	case screenplay.Character:
		return true
	case screenplay.Parenthetical:
		return hasPrev && (prev == screenplay.Character || prev == screenplay.Dialogue)
	}
	return false
}

// groupTails computes, in one backward pass, ends[j]: the index of the first
// Dialogue reachable from j over Parenthetical and Empty lines only (-1 if
// none), and tails[j]: the height of lines j through ends[j]. Both slices
// have a trailing sentinel at len(lines).
func groupTails(lines []screenplay.ClassifiedLine, placed []PlacedLine) ([]int, []float64) {
	n := len(lines)
	ends := make([]int, n+1)
	tails := make([]float64, n+1)
	ends[n] = -1
	for j := n - 1; j >= 0; j-- {
		switch lines[j].Kind {
		case screenplay.Dialogue:
			ends[j], tails[j] = j, placed[j].Height
		case screenplay.Parenthetical, screenplay.Empty:
			ends[j] = ends[j+1]
			if ends[j] >= 0 {
				tails[j] = placed[j].Height + tails[j+1]
			}
		default:
			ends[j] = -1
		}
	}
	return ends, tails
}
