/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import "strings"

// LineKind is the structural role a screenplay line plays.
// Every line has exactly one kind; Action is the fallback.
type LineKind int

const (
	Empty LineKind = iota
	SceneHeading
	Character
	Parenthetical
	Transition
	Dialogue
	Action
)

var kindNames = [...]string{
	Empty:         "empty",
	SceneHeading:  "scene-heading",
	Character:     "character",
	Parenthetical: "parenthetical",
	Transition:    "transition",
	Dialogue:      "dialogue",
	Action:        "action",
}

// String returns the kebab-case name of the kind, suitable as a CSS class.
func (k LineKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind from its String form. Matching ignores case and
// accepts underscores or spaces in place of the dash ("scene_heading").
func ParseKind(s string) (LineKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	if s == "sceneheading" {
		s = "scene-heading"
	}
	for i, n := range kindNames {
		if n == s {
			return LineKind(i), true
		}
	}
	return Empty, false
}

// Kinds lists every LineKind in declaration order.
func Kinds() []LineKind {
	return []LineKind{Empty, SceneHeading, Character, Parenthetical, Transition, Dialogue, Action}
}

// ClassifiedLine is one input line tagged with its kind.
// Text is the raw input; NormalizedText is the kind-specific canonical form
// (scene headings and transitions are upper-cased, everything else is verbatim).
type ClassifiedLine struct {
	Kind           LineKind
	Text           string
	NormalizedText string
}

// State is the cursor threaded through a line sequence.
// Previous holds the kind of the last non-empty line; BlankSince reports
// whether at least one blank line was seen after it.
type State struct {
	Previous    LineKind
	HasPrevious bool
	BlankSince  bool
}
