/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pager

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"testing"

	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/textlayout"
)

// smallGeometry fits ten 0.2in rows per page and leaves 3.5in of text width.
func smallGeometry() Geometry {
	return Geometry{
		PageWidthInches:  4.5,
		PageHeightInches: 3,
		MarginInches:     0.5,
		LineHeightInches: 0.2,
		Indents: map[screenplay.LineKind]float64{
			screenplay.Empty:         0,
			screenplay.SceneHeading:  0,
			screenplay.Action:        0,
			screenplay.Character:     1.5,
			screenplay.Parenthetical: 1,
			screenplay.Dialogue:      0.5,
			screenplay.Transition:    2.5,
		},
	}
}

func quiet() Option { return WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))) }

func actions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Rain."
	}
	return out
}

func flatten(pages []Page) []PlacedLine {
	var out []PlacedLine
	for _, p := range pages {
		out = append(out, p.Lines...)
	}
	return out
}

func pageOf(pages []Page) []int {
	var out []int
	for _, p := range pages {
		for range p.Lines {
			out = append(out, p.Number)
		}
	}
	return out
}

func TestPaginateShortSceneSinglePage(t *testing.T) {
	in := []string{"INT. OFFICE - DAY", "", "Alice sits at her desk.", "ALICE", "(whispering)", "Is anyone there?", "FADE OUT."}
	cls := screenplay.Classify(in)
	pages := New(Letter(), quiet()).Paginate(cls)
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if len(pages[0].Lines) != 7 {
		t.Fatalf("expected 7 placed lines, got %d", len(pages[0].Lines))
	}
	for i, pl := range pages[0].Lines {
		if pl.Line != cls[i] {
			t.Fatalf("line %d out of order or altered: %+v", i, pl.Line)
		}
		if pl.XIndent != Letter().Indents[pl.Line.Kind] {
			t.Fatalf("line %d indent %v", i, pl.XIndent)
		}
	}
	if y := pages[0].Lines[0].YPosition; y != 1 {
		t.Fatalf("first line should start at the top margin, got %v", y)
	}
	// scene heading consumes a row and a half
	if got := pages[0].Lines[1].YPosition; math.Abs(got-1.3) > 1e-9 {
		t.Fatalf("line after scene heading at %v, want 1.3", got)
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	pages := New(Letter(), quiet()).Paginate(nil)
	if len(pages) != 1 || pages[0].Number != 1 || len(pages[0].Lines) != 0 {
		t.Fatalf("expected one empty page, got %+v", pages)
	}
}

func TestEmptyLinesConsumeARow(t *testing.T) {
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify([]string{"", "", "Rain.", ""}))
	ls := pages[0].Lines
	if len(ls) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(ls))
	}
	for i, pl := range ls {
		if len(pl.Segments) != 1 || math.Abs(pl.Height-0.2) > 1e-9 {
			t.Fatalf("line %d: segments %q height %v", i, pl.Segments, pl.Height)
		}
	}
	if ls[0].Segments[0] != "" {
		t.Fatalf("empty line should render an empty row, got %q", ls[0].Segments[0])
	}
}

func TestLineMovesWholeToNextPage(t *testing.T) {
	long := strings.Repeat("word ", 21) // seven words per 3.5in row, three rows
	in := append(actions(8), long)
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify(in))
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Lines) != 8 {
		t.Fatalf("expected 8 lines on page 1, got %d", len(pages[0].Lines))
	}
	moved := pages[1].Lines[0]
	if len(moved.Segments) != 3 || moved.YPosition != 0.5 {
		t.Fatalf("long line should start page 2 with 3 rows, got %+v", moved)
	}
}

func TestCueIsNotOrphaned(t *testing.T) {
	// nine rows used, the cue would take the last row and push its dialogue over
	in := append(actions(9), "BOB", "Hi.")
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify(in))
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if last := pages[0].Lines[len(pages[0].Lines)-1]; last.Line.Kind != screenplay.Action {
		t.Fatalf("page 1 should end with action, got %v", last.Line.Kind)
	}
	if first := pages[1].Lines[0]; first.Line.Kind != screenplay.Character {
		t.Fatalf("page 2 should start with the cue, got %v", first.Line.Kind)
	}
}

func TestCueGroupWithParentheticalAndBlank(t *testing.T) {
	in := append(actions(7), "BOB", "", "(quietly)", "Hi.")
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify(in))
	if len(pages) != 2 || len(pages[0].Lines) != 7 || len(pages[1].Lines) != 4 {
		t.Fatalf("group should move together, got pages %d/%d", len(pages[0].Lines), len(pages[len(pages)-1].Lines))
	}
}

func TestParentheticalKeptWithDialogue(t *testing.T) {
	// "Hi." fills row 9, the parenthetical would take row 10 alone
	in := append(actions(7), "BOB", "Hi.", "(beat)", "Bye.")
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify(in))
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if k := pages[1].Lines[0].Line.Kind; k != screenplay.Parenthetical {
		t.Fatalf("page 2 should start with the parenthetical, got %v", k)
	}
}

func TestOversizedLineOverflowsFreshPage(t *testing.T) {
	var buf bytes.Buffer
	huge := strings.Repeat("talk ", 100) // far more than ten rows
	in := []string{"Rain.", "BOB", huge, "Rain."}
	p := New(smallGeometry(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	pages := p.Paginate(screenplay.Classify(in))
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if len(pages[0].Lines) != 2 {
		t.Fatalf("cue cannot be kept with an oversized line and should stay on page 1, got %d lines", len(pages[0].Lines))
	}
	if got := pages[1].Lines[0]; got.Line.Kind != screenplay.Dialogue || got.YPosition != 0.5 {
		t.Fatalf("oversized dialogue should start page 2, got %+v", got)
	}
	if !strings.Contains(buf.String(), "line taller than page") {
		t.Fatalf("expected overflow warning, log: %s", buf.String())
	}
}

func TestOverflowWarningReportsLineHeight(t *testing.T) {
	var buf bytes.Buffer
	// 3500 columns at 35 columns per action row is exactly 100 rows.
	in := []string{strings.Repeat("x", 3500)}
	p := New(smallGeometry(), WithLogger(applog.New(applog.Options{Level: "warn", Writer: &buf})))
	pages := p.Paginate(screenplay.Classify(in))
	if got := pages[0].Lines[0].Height; math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected a 20in line, got %v", got)
	}
	out := buf.String()
	if !strings.Contains(out, " rows=100 ") || !strings.Contains(out, " height_in=20") {
		t.Fatalf("overflow warning misreports the line: %q", out)
	}
	if strings.Contains(out, "height_in=2 ") || strings.HasSuffix(strings.TrimSpace(out), "height_in=2") {
		t.Fatalf("height lost digits: %q", out)
	}
}

func TestPageNumbersAreSequential(t *testing.T) {
	pages := New(smallGeometry(), quiet()).Paginate(screenplay.Classify(actions(55)))
	if len(pages) != 6 {
		t.Fatalf("expected 6 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Fatalf("page %d numbered %d", i, p.Number)
		}
	}
}

var pool = []string{
	"INT. KITCHEN - NIGHT", "EXT. DESERT HIGHWAY - DAWN", "", "", "",
	"She waits by the window, counting cars that never stop.",
	"Thunder.", "JOHN", "MARIA (V.O.)", "(sighing)", "(beat)",
	"You never listen to me, not once in twenty years of this.",
	"Fine.", "CUT TO:", "FADE OUT.", strings.Repeat("Long action text ", 12),
}

func randomScript(rng *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = pool[rng.Intn(len(pool))]
	}
	return out
}

// cueGroupEnd is a direct forward scan for the dialogue line that closes the
// cue group opened at i, used to check the paginator's precomputed groups.
func cueGroupEnd(cls []screenplay.ClassifiedLine, i int) (int, bool) {
	switch cls[i].Kind {
	case screenplay.Character:
	case screenplay.Parenthetical:
		j := i - 1
		for j >= 0 && cls[j].Kind == screenplay.Empty {
			j--
		}
		if j < 0 || (cls[j].Kind != screenplay.Character && cls[j].Kind != screenplay.Dialogue) {
			return 0, false
		}
	default:
		return 0, false
	}
	for j := i + 1; j < len(cls); j++ {
		switch cls[j].Kind {
		case screenplay.Dialogue:
			return j, true
		case screenplay.Parenthetical, screenplay.Empty:
		default:
			return 0, false
		}
	}
	return 0, false
}

func TestLongParentheticalRunStaysLinear(t *testing.T) {
	// a cue followed by thousands of parentheticals and no dialogue
	in := []string{"BOB"}
	for i := 0; i < 20000; i++ {
		in = append(in, "(beat)")
	}
	in = append(in, "CUT TO:")
	cls := screenplay.Classify(in)
	ends, tails := groupTails(cls, make([]PlacedLine, len(cls)))
	if ends[1] != -1 || tails[1] != 0 {
		t.Fatalf("run without dialogue should close no group, got end %d", ends[1])
	}
	pages := New(smallGeometry(), quiet()).Paginate(cls)
	if n := len(flatten(pages)); n != len(cls) {
		t.Fatalf("placed %d of %d lines", n, len(cls))
	}
}

func TestGroupTailsSumsThroughDialogue(t *testing.T) {
	cls := screenplay.Classify([]string{"ALICE", "(quietly)", "", "Hello.", "CUT TO:"})
	placed := make([]PlacedLine, len(cls))
	for i := range placed {
		placed[i].Height = 0.2
	}
	ends, tails := groupTails(cls, placed)
	wantEnds := []int{-1, 3, 3, 3, -1, -1}
	for i, w := range wantEnds {
		if ends[i] != w {
			t.Fatalf("ends[%d] = %d, want %d (all %v)", i, ends[i], w, ends)
		}
	}
	if math.Abs(tails[1]-0.6) > 1e-9 || math.Abs(tails[3]-0.2) > 1e-9 {
		t.Fatalf("unexpected tails %v", tails)
	}
}

func TestPaginationProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := smallGeometry()
	usable := g.UsableHeight()
	bottom := g.PageHeightInches - g.MarginInches
	p := New(g, quiet())
	for n := 0; n < 300; n++ {
		cls := screenplay.Classify(randomScript(rng, rng.Intn(80)))
		pages := p.Paginate(cls)
		flat := flatten(pages)

		if len(flat) != len(cls) {
			t.Fatalf("conservation: %d placed for %d lines", len(flat), len(cls))
		}
		for i := range flat {
			if flat[i].Line != cls[i] {
				t.Fatalf("line %d altered or reordered", i)
			}
		}
		for _, pg := range pages {
			if pg.Height() > usable+1e-9 {
				t.Fatalf("page %d uses %v of %v", pg.Number, pg.Height(), usable)
			}
			for _, pl := range pg.Lines {
				if pl.YPosition+pl.Height > bottom+1e-9 {
					t.Fatalf("line runs past bottom margin on page %d", pg.Number)
				}
			}
		}
		where := pageOf(pages)
		for i := range cls {
			end, ok := cueGroupEnd(cls, i)
			if !ok {
				continue
			}
			gh := 0.0
			for j := i; j <= end; j++ {
				gh += flat[j].Height
			}
			if gh <= usable && where[i] != where[end] {
				t.Fatalf("cue at %d on page %d, its dialogue at %d on page %d", i, where[i], end, where[end])
			}
		}
	}
}

func TestPDFCoreMeasurerMatchesColumns(t *testing.T) {
	m, err := textlayout.NewPDFCore("Courier", 12)
	if err != nil {
		t.Fatalf("NewPDFCore: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	cls := screenplay.Classify(randomScript(rng, 120))
	a := New(Letter(), quiet()).Paginate(cls)
	b := New(Letter(), quiet(), WithMeasurer(m)).Paginate(cls)
	if len(a) != len(b) {
		t.Fatalf("page counts differ: %d vs %d", len(a), len(b))
	}
	fa, fb := flatten(a), flatten(b)
	for i := range fa {
		if strings.Join(fa[i].Segments, "|") != strings.Join(fb[i].Segments, "|") {
			t.Fatalf("line %d wrapped differently: %q vs %q", i, fa[i].Segments, fb[i].Segments)
		}
	}
}

func TestInvalidGeometryPanics(t *testing.T) {
	g := smallGeometry()
	delete(g.Indents, screenplay.Dialogue)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing indent")
		}
	}()
	Paginate(nil, g)
}

func TestGeometryValidate(t *testing.T) {
	for _, name := range Presets() {
		g, ok := Preset(name)
		if !ok {
			t.Fatalf("preset %q missing", name)
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("preset %q invalid: %v", name, err)
		}
	}
	if _, ok := Preset("tabloid"); ok {
		t.Fatalf("unexpected preset tabloid")
	}

	bad := []func(*Geometry){
		func(g *Geometry) { g.MarginInches = 0 },
		func(g *Geometry) { g.LineHeightInches = -1 },
		func(g *Geometry) { g.PageHeightInches = math.NaN() },
		func(g *Geometry) { g.MarginInches = 5.4 },
		func(g *Geometry) { g.Indents[screenplay.Transition] = 7 },
		func(g *Geometry) { g.Indents[screenplay.Action] = -0.5 },
		func(g *Geometry) { delete(g.Indents, screenplay.Empty) },
	}
	for i, mutate := range bad {
		g := Letter()
		mutate(&g)
		if err := g.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestPaginatorKeepsOwnGeometryCopy(t *testing.T) {
	g := Letter()
	p := New(g, quiet())
	g.Indents[screenplay.Dialogue] = 3
	if got := p.Geometry().Indents[screenplay.Dialogue]; got != 1.5 {
		t.Fatalf("paginator geometry changed through caller map: %v", got)
	}
}
