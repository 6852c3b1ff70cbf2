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
	"fmt"
	"strings"

	"goscreenwriter/internal/textlayout"
)

// Measurer builds the text measurer selected by layout.measurer.
func (c AppConfig) Measurer() (textlayout.Measurer, error) {
	l := c.Layout
	switch strings.ToLower(strings.TrimSpace(l.Measurer)) {
	case "", "columns":
		return textlayout.Columns{CharsPerInch: l.CharsPerInch}, nil
	case "courier-pdf":
		m, err := textlayout.NewPDFCore("Courier", l.FontSizePt)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "basicfont":
		return textlayout.NewBasicFont(l.DPI), nil
	case "ttf":
		if strings.TrimSpace(l.FontFile) == "" {
			return nil, fmt.Errorf("measurer ttf requires layout.font_file")
		}
		m, err := textlayout.LoadTTF(l.FontFile, l.FontSizePt, l.DPI)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown measurer %q (want columns, courier-pdf, basicfont or ttf)", l.Measurer)
}
