/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"goscreenwriter/internal/pager"
	"goscreenwriter/internal/screenplay"
)

// ErrInvalidGeometry wraps every geometry validation failure.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// geometrySchema mirrors the preconditions of the paginator: positive page
// dimensions and a non-negative indent for every line kind.
const geometrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["page_width_in", "page_height_in", "margin_in", "line_height_in", "indents"],
  "additionalProperties": false,
  "properties": {
    "page_width_in":  {"type": "number", "exclusiveMinimum": 0},
    "page_height_in": {"type": "number", "exclusiveMinimum": 0},
    "margin_in":      {"type": "number", "exclusiveMinimum": 0},
    "line_height_in": {"type": "number", "exclusiveMinimum": 0},
    "indents": {
      "type": "object",
      "required": ["empty", "scene-heading", "character", "parenthetical", "transition", "dialogue", "action"],
      "propertyNames": {"enum": ["empty", "scene-heading", "character", "parenthetical", "transition", "dialogue", "action"]},
      "additionalProperties": {"type": "number", "minimum": 0}
    }
  }
}`

var geometrySchemaLoader = gojsonschema.NewStringLoader(geometrySchema)

type geometryDoc struct {
	PageWidthIn  float64            `json:"page_width_in"`
	PageHeightIn float64            `json:"page_height_in"`
	MarginIn     float64            `json:"margin_in"`
	LineHeightIn float64            `json:"line_height_in"`
	Indents      map[string]float64 `json:"indents"`
}

// ValidateGeometry checks g against the geometry JSON schema and the
// paginator's own cross-field rules. Errors wrap ErrInvalidGeometry.
func ValidateGeometry(g pager.Geometry) error {
	doc := geometryDoc{
		PageWidthIn:  g.PageWidthInches,
		PageHeightIn: g.PageHeightInches,
		MarginIn:     g.MarginInches,
		LineHeightIn: g.LineHeightInches,
		Indents:      make(map[string]float64, len(g.Indents)),
	}
	for k, v := range g.Indents {
		doc.Indents[k.String()] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	res, err := gojsonschema.Validate(geometrySchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: schema: %v", ErrInvalidGeometry, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidGeometry, strings.Join(msgs, "; "))
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return nil
}

// Geometry resolves the configured preset plus overrides into a validated
// page geometry.
func (c AppConfig) Geometry() (pager.Geometry, error) {
	g, ok := pager.Preset(c.Layout.Preset)
	if !ok {
		return pager.Geometry{}, fmt.Errorf("%w: unknown preset %q (want one of %s)",
			ErrInvalidGeometry, c.Layout.Preset, strings.Join(pager.Presets(), ", "))
	}
	o := c.Layout.Geometry
	if o.PageWidthIn != 0 {
		g.PageWidthInches = o.PageWidthIn
	}
	if o.PageHeightIn != 0 {
		g.PageHeightInches = o.PageHeightIn
	}
	if o.MarginIn != 0 {
		g.MarginInches = o.MarginIn
	}
	if o.LineHeightIn != 0 {
		g.LineHeightInches = o.LineHeightIn
	}
	for name, v := range o.Indents {
		k, ok := screenplay.ParseKind(name)
		if !ok {
			return pager.Geometry{}, fmt.Errorf("%w: unknown line kind %q in indents", ErrInvalidGeometry, name)
		}
		g.Indents[k] = v
	}
	if err := ValidateGeometry(g); err != nil {
		return pager.Geometry{}, err
	}
	return g, nil
}
