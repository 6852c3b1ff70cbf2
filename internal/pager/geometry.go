/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pager

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"goscreenwriter/internal/screenplay"
)

// Geometry describes the printable page. All lengths are inches.
// Indents are measured from the left margin, one per LineKind.
type Geometry struct {
	PageWidthInches  float64
	PageHeightInches float64
	MarginInches     float64
	LineHeightInches float64
	Indents          map[screenplay.LineKind]float64
}

// Industry indents for 12pt Courier, as used by the screenplay PDF export.
func standardIndents() map[screenplay.LineKind]float64 {
	return map[screenplay.LineKind]float64{
		screenplay.Empty:         0,
		screenplay.SceneHeading:  0,
		screenplay.Action:        0,
		screenplay.Character:     2.5,
		screenplay.Parenthetical: 2,
		screenplay.Dialogue:      1.5,
		screenplay.Transition:    5.5,
	}
}

// Letter is US letter (8.5x11in) with 1in margins and 0.2in rows.
func Letter() Geometry {
	return Geometry{PageWidthInches: 8.5, PageHeightInches: 11, MarginInches: 1, LineHeightInches: 0.2, Indents: standardIndents()}
}

// A4 is ISO A4 (8.27x11.69in) with the same margins and indents as Letter.
func A4() Geometry {
	return Geometry{PageWidthInches: 8.27, PageHeightInches: 11.69, MarginInches: 1, LineHeightInches: 0.2, Indents: standardIndents()}
}

// Presets lists the names accepted by Preset.
func Presets() []string { return []string{"letter", "a4"} }

// Preset resolves a geometry by name (case-insensitive).
func Preset(name string) (Geometry, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "letter", "us-letter":
		return Letter(), true
	case "a4":
		return A4(), true
	}
	return Geometry{}, false
}

// UsableHeight is the vertical space between top and bottom margins.
func (g Geometry) UsableHeight() float64 { return g.PageHeightInches - 2*g.MarginInches }

// TextWidth is the wrap width available to a line of the given kind.
func (g Geometry) TextWidth(k screenplay.LineKind) float64 {
	return g.PageWidthInches - 2*g.MarginInches - g.Indents[k]
}

// Clone returns a copy that does not share the Indents map.
func (g Geometry) Clone() Geometry {
	cp := g
	cp.Indents = make(map[screenplay.LineKind]float64, len(g.Indents))
	for k, v := range g.Indents {
		cp.Indents[k] = v
	}
	return cp
}

// Validate checks the preconditions Paginate relies on.
func (g Geometry) Validate() error {
	var errs []error
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"page width", g.PageWidthInches},
		{"page height", g.PageHeightInches},
		{"margin", g.MarginInches},
		{"line height", g.LineHeightInches},
	} {
		if !(d.v > 0) || math.IsInf(d.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a positive finite number, got %v", d.name, d.v))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if g.UsableHeight() < g.LineHeightInches {
		errs = append(errs, fmt.Errorf("usable height %.3gin cannot hold one %.3gin row", g.UsableHeight(), g.LineHeightInches))
	}
	for _, k := range screenplay.Kinds() {
		in, ok := g.Indents[k]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("missing indent for %s", k))
		case in < 0 || math.IsNaN(in) || math.IsInf(in, 0):
			errs = append(errs, fmt.Errorf("indent for %s must be non-negative, got %v", k, in))
		case g.TextWidth(k) <= 0:
			errs = append(errs, fmt.Errorf("indent %.3gin for %s leaves no room for text", in, k))
		}
	}
	return errors.Join(errs...)
}
