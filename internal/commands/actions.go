/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"goscreenwriter/internal/config"
	"goscreenwriter/internal/crash"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/pager"
	"goscreenwriter/internal/preview"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/version"
)

// run is the per-invocation state shared by the actions.
type run struct {
	cfg  config.AppConfig
	log  *slog.Logger
	memo *screenplay.Memo // nil when the cache is disabled
}

// setup loads the config (--config or the per-user file), initializes
// logging to the app's error writer and prepares the classification memo.
func setup(c *cli.Context, op string) (*run, error) {
	var (
		cfg config.AppConfig
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	opts := cfg.LogOptions()
	opts.Writer = c.App.ErrWriter
	applog.Init(opts)

	r := &run{cfg: cfg, log: applog.WithOperation(applog.WithComponent("cli"), op)}
	if cfg.Cache.Enabled {
		r.memo = screenplay.NewMemo()
	}
	return r, nil
}

func inputName(c *cli.Context) string {
	if n := c.Args().First(); n != "" {
		return n
	}
	return "-"
}

// readText reads a whole script from a file, or from the app's reader
// when name is "-".
func readText(c *cli.Context, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// classify runs text through the memo when the cache is enabled.
func (r *run) classify(text string) []screenplay.ClassifiedLine {
	if r.memo == nil {
		return screenplay.ClassifyText(text)
	}
	return r.memo.Classify(screenplay.SplitLines(text))
}

// ClassifyAction prints "kind<TAB>text" for every line. Several files are
// classified in parallel and printed in argument order under a header.
func ClassifyAction(c *cli.Context) error {
	names := c.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}
	defer crash.Recover(strings.Join(names, ","))

	r, err := setup(c, "classify")
	if err != nil {
		return err
	}
	w := c.App.Writer
	if len(names) == 1 {
		text, err := readText(c, names[0])
		if err != nil {
			return err
		}
		cl := r.classify(text)
		r.log.DebugContext(applog.ContextWithInput(c.Context, names[0]), "classified", slog.Int("lines", len(cl)))
		return preview.WriteClassified(w, cl)
	}

	docs := make([][]string, len(names))
	for i, n := range names {
		text, err := readText(c, n)
		if err != nil {
			return err
		}
		docs[i] = screenplay.SplitLines(text)
	}
	results, err := screenplay.ClassifyAll(c.Context, docs, c.Int("jobs"))
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	r.log.Debug("classified batch", slog.Int("files", len(results)), slog.Int("jobs", c.Int("jobs")))
	for i, cl := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "==> %s <==\n", names[i]); err != nil {
			return err
		}
		if err := preview.WriteClassified(w, cl); err != nil {
			return err
		}
	}
	return nil
}

// PaginateAction classifies the input, lays it out on pages and prints the
// paged preview. --preset and --measurer override the config.
func PaginateAction(c *cli.Context) error {
	name := inputName(c)
	defer crash.Recover(name)

	r, err := setup(c, "paginate")
	if err != nil {
		return err
	}
	if c.IsSet("preset") {
		r.cfg.Layout.Preset = c.String("preset")
	}
	if c.IsSet("measurer") {
		r.cfg.Layout.Measurer = c.String("measurer")
	}
	g, err := r.cfg.Geometry()
	if err != nil {
		return err
	}
	m, err := r.cfg.Measurer()
	if err != nil {
		return err
	}
	text, err := readText(c, name)
	if err != nil {
		return err
	}

	ctx := applog.ContextWithInput(c.Context, name)
	cl := r.classify(text)
	p := pager.New(g, pager.WithMeasurer(m), pager.WithLogger(applog.WithComponent("pager")))
	pages := p.PaginateContext(ctx, cl)
	r.log.DebugContext(ctx, "paginated",
		slog.String("preset", r.cfg.Layout.Preset),
		slog.String("measurer", r.cfg.Layout.Measurer),
		slog.Int("lines", len(cl)),
		slog.Int("pages", len(pages)))
	return preview.WritePages(c.App.Writer, pages, g)
}

// TextAction prints the normalized text of every line.
func TextAction(c *cli.Context) error {
	name := inputName(c)
	defer crash.Recover(name)

	r, err := setup(c, "text")
	if err != nil {
		return err
	}
	text, err := readText(c, name)
	if err != nil {
		return err
	}
	return preview.PlainText(c.App.Writer, r.classify(text))
}

// PresetsAction lists the built-in page presets.
func PresetsAction(c *cli.Context) error {
	for _, n := range pager.Presets() {
		g, _ := pager.Preset(n)
		rows := int(math.Floor(g.UsableHeight()/g.LineHeightInches + 1e-9))
		if _, err := fmt.Fprintf(c.App.Writer, "%-7s %.2fx%.2fin  margin %.2fin  line %.2fin  %d rows\n",
			n, g.PageWidthInches, g.PageHeightInches, g.MarginInches, g.LineHeightInches, rows); err != nil {
			return err
		}
	}
	return nil
}

// VersionAction prints the build version.
func VersionAction(c *cli.Context) error {
	_, err := fmt.Fprintf(c.App.Writer, "goscreenwriter %s\n", version.String())
	return err
}
