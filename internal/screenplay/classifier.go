/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reSceneHeading = regexp.MustCompile(`(?i)^(INT\./EXT\.|INT/EXT\.|INT\.|EXT\.|I/E)`)
	reTransition   = regexp.MustCompile(`(?i)^(FADE IN|FADE OUT|DISSOLVE|CUT TO)`)
)

// Classify tags every line of a screenplay with its structural kind.
// It is total: each input line yields exactly one ClassifiedLine and
// unrecognised text degrades to Action. Rules are applied in priority order:
//   - Empty: blank or whitespace-only
//   - SceneHeading: INT. / EXT. / INT./EXT. / INT/EXT. / I/E prefix (any case)
//   - Transition: FADE IN / FADE OUT / DISSOLVE / CUT TO prefix (any case) or a "TO:" suffix
//   - Parenthetical: wrapped in "(" and ")"
//   - Character: no lowercase letters and no ':'
//   - Dialogue: after a Character or Parenthetical cue, or continuing dialogue
//   - Action: everything else
func Classify(lines []string) []ClassifiedLine {
	out := make([]ClassifiedLine, 0, len(lines))
	var st State
	for _, raw := range lines {
		var cl ClassifiedLine
		cl, st = Step(st, raw)
		out = append(out, cl)
	}
	return out
}

// ClassifyText splits text into lines and classifies them.
func ClassifyText(text string) []ClassifiedLine { return Classify(SplitLines(text)) }

// Step classifies a single line given the cursor left by the previous one and
// returns the advanced cursor. Classify is a left fold over Step.
//
// Blank lines keep the last non-empty kind, so a cue still owns the first
// dialogue line after a blank, but they end a run of dialogue continuation.
func Step(st State, raw string) (ClassifiedLine, State) {
	trim := strings.TrimSpace(raw)
	if trim == "" {
		st.BlankSince = true
		return ClassifiedLine{Kind: Empty, Text: raw, NormalizedText: raw}, st
	}

	kind := kindOf(trim, st)
	norm := raw
	if kind == SceneHeading || kind == Transition {
		norm = strings.ToUpper(trim)
	}
	return ClassifiedLine{Kind: kind, Text: raw, NormalizedText: norm},
		State{Previous: kind, HasPrevious: true}
}

func kindOf(trim string, st State) LineKind {
	switch {
	case reSceneHeading.MatchString(trim):
		return SceneHeading
	case reTransition.MatchString(trim) || strings.HasSuffix(trim, "TO:"):
		return Transition
	case strings.HasPrefix(trim, "(") && strings.HasSuffix(trim, ")"):
		return Parenthetical
	case isCue(trim):
		return Character
	case inDialogue(st):
		return Dialogue
	default:
		return Action
	}
}

// isCue reports whether s reads as a character cue: no lowercase letters and no colon.
func isCue(s string) bool {
	if s == "" || strings.ContainsRune(s, ':') {
		return false
	}
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func inDialogue(st State) bool {
	if !st.HasPrevious {
		return false
	}
	switch st.Previous {
	case Character, Parenthetical:
		return true
	case Dialogue:
		return !st.BlankSince
	}
	return false
}

// SplitLines splits text on \n, \r\n or \r. A trailing line terminator does
// not produce an extra empty line; empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
