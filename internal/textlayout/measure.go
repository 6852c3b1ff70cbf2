/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Width measurement for wrapping screenplay text. All measurers report
// widths in inches so the paginator can work directly in page units.
// Backends range from a pure character-count estimate to real glyph
// advances; they are interchangeable behind Measurer.

import (
	"fmt"
	"os"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/text/width"
)

// Measurer reports the rendered width of a single line of text in inches.
// Implementations must be safe for concurrent use.
type Measurer interface {
	Width(s string) float64
}

// DefaultCharsPerInch matches 12pt Courier, the screenplay standard.
const DefaultCharsPerInch = 10.0

// Columns measures text by display columns at a fixed pitch. Wide and
// fullwidth East Asian runes take two columns.
type Columns struct {
	CharsPerInch float64
}

func (c Columns) Width(s string) float64 {
	cpi := c.CharsPerInch
	if cpi <= 0 {
		cpi = DefaultCharsPerInch
	}
	return float64(ColumnCount(s)) / cpi
}

// ColumnCount returns the number of monospace display columns s occupies.
func ColumnCount(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// FaceMeasurer measures glyph advances of a font.Face rendered at DPI.
// font.Face values are not safe for concurrent use, so access is serialized.
type FaceMeasurer struct {
	mu   sync.Mutex
	face font.Face
	dpi  float64
}

// NewFaceMeasurer wraps face; dpi is the resolution the face was built for
// (72 if zero).
func NewFaceMeasurer(face font.Face, dpi float64) *FaceMeasurer {
	if dpi <= 0 {
		dpi = 72
	}
	return &FaceMeasurer{face: face, dpi: dpi}
}

// NewBasicFont measures with the fixed 7x13 bitmap face, deterministic
// across platforms.
func NewBasicFont(dpi float64) *FaceMeasurer { return NewFaceMeasurer(basicfont.Face7x13, dpi) }

// LoadTTF parses an OpenType/TrueType file and measures with it at sizePt.
func LoadTTF(path string, sizePt, dpi float64) (*FaceMeasurer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseTTF(data, sizePt, dpi)
}

// ParseTTF is LoadTTF for in-memory font data.
func ParseTTF(data []byte, sizePt, dpi float64) (*FaceMeasurer, error) {
	if sizePt <= 0 {
		sizePt = 12
	}
	if dpi <= 0 {
		dpi = 72
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePt, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return NewFaceMeasurer(face, dpi), nil
}

func (m *FaceMeasurer) Width(s string) float64 {
	m.mu.Lock()
	adv := font.MeasureString(m.face, s)
	m.mu.Unlock()
	return float64(adv) / 64 / m.dpi // fixed.Int26_6 px -> inches
}

// PDFCoreMeasurer uses the metrics of a PDF core font (Courier, Helvetica,
// Times) as a PDF writer would lay it out. No document is produced.
type PDFCoreMeasurer struct {
	mu        sync.Mutex
	pdf       *gofpdf.Fpdf
	translate func(string) string
}

// NewPDFCore prepares a measurer for the given core font family and size.
func NewPDFCore(family string, sizePt float64) (*PDFCoreMeasurer, error) {
	if family == "" {
		family = "Courier"
	}
	if sizePt <= 0 {
		sizePt = 12
	}
	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.SetFont(family, "", sizePt)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("core font %s: %w", family, err)
	}
	return &PDFCoreMeasurer{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}, nil
}

func (m *PDFCoreMeasurer) Width(s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pdf.GetStringWidth(m.translate(s))
}
